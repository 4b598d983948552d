package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/config"
	"github.com/jackzampolin/timetable/internal/svcctx"
)

// Setting sources.
const (
	SourceFile    = "file"
	SourceDefault = "default"
)

// SettingsResponse lists every key written in the config file.
type SettingsResponse struct {
	File     string                  `json:"file,omitempty"`
	Settings map[string]config.Entry `json:"settings"`
}

// SettingResponse is one setting and where its value came from.
type SettingResponse struct {
	Entry  *config.Entry `json:"entry"`
	Source string        `json:"source"`
}

// UpdateSettingRequest is the request body for updating a setting.
type UpdateSettingRequest struct {
	Value any `json:"value"`
}

// settingsStore returns the config store, writing a 500 when there is none.
func settingsStore(w http.ResponseWriter, r *http.Request) (config.Store, bool) {
	store := svcctx.ConfigStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "config store not available")
		return nil, false
	}
	return store, true
}

// settingKey reads and checks the {key...} path value.
func settingKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := url.PathUnescape(r.PathValue("key"))
	if err == nil {
		err = config.ValidateKey(key)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return key, true
}

// settingStatus maps store and validation errors to HTTP status codes.
func settingStatus(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalidKey),
		errors.Is(err, config.ErrUnknownSetting),
		errors.Is(err, config.ErrInvalidSetting):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrNoDefault):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ListSettingsEndpoint handles GET /api/settings.
type ListSettingsEndpoint struct{}

func (e *ListSettingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings", e.handler
}

func (e *ListSettingsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List settings
//	@Description	Every key written in the config file
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings [get]
func (e *ListSettingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}
	entries, err := store.GetAll(r.Context())
	if err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}

	resp := SettingsResponse{Settings: entries}
	if fs, ok := store.(interface{ Path() string }); ok {
		resp.File = fs.Path()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListSettingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List settings written in the server's config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp SettingsResponse
			if err := newClient(getServerURL()).Get(cmd.Context(), "/api/settings", &resp); err != nil {
				return err
			}
			entries := make([]config.Entry, 0, len(resp.Settings))
			for _, k := range config.Keys(resp.Settings) {
				if strings.HasPrefix(k, prefix) {
					entries = append(entries, resp.Settings[k])
				}
			}
			return api.Output(entries)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only keys with this prefix (e.g. campuses.62.)")
	return cmd
}

// GetSettingEndpoint handles GET /api/settings/{key...}.
type GetSettingEndpoint struct{}

func (e *GetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/settings/{key...}", e.handler
}

func (e *GetSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a setting
//	@Description	The value in the config file, or the default when the file does not set it
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key, e.g. campuses.62.default_batches"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/settings/{key} [get]
func (e *GetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}

	entry, err := store.Get(r.Context(), key)
	if err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}
	if entry != nil {
		writeJSON(w, http.StatusOK, SettingResponse{Entry: entry, Source: SourceFile})
		return
	}
	if def := config.GetDefault(key); def != nil {
		writeJSON(w, http.StatusOK, SettingResponse{Entry: def, Source: SourceDefault})
		return
	}
	writeError(w, http.StatusNotFound, "setting not set and has no default: "+key)
}

func (e *GetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp SettingResponse
			if err := newClient(getServerURL()).Get(cmd.Context(), "/api/settings/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// UpdateSettingEndpoint handles PUT /api/settings/{key...}.
type UpdateSettingEndpoint struct{}

func (e *UpdateSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/settings/{key...}", e.handler
}

func (e *UpdateSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Update a setting
//	@Description	Write a checked value to the config file; the server applies it on reload
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string					true	"Setting key, e.g. campuses.62.default_batches"
//	@Param			body	body		UpdateSettingRequest	true	"New value"
//	@Success		200		{object}	SettingResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/settings/{key} [put]
func (e *UpdateSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}
	var req UpdateSettingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.CheckSetting(key, req.Value); err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}

	if err := store.Set(r.Context(), key, req.Value, ""); err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}
	svcctx.LoggerFrom(r.Context()).Info("setting updated", "key", key)

	entry, err := store.Get(r.Context(), key)
	if err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{Entry: entry, Source: SourceFile})
}

func (e *UpdateSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update a setting",
		Long: `Update a setting on the server. The value is parsed as YAML, so
numbers, booleans and lists keep their type.

Examples:
  timetable api settings set campuses.62.default_batches "[A, B, C, D, G, H]"
  timetable api settings set sessions.ttl 2h`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := yaml.Unmarshal([]byte(args[1]), &value); err != nil {
				value = args[1]
			}
			var resp SettingResponse
			path := "/api/settings/" + url.PathEscape(args[0])
			if err := newClient(getServerURL()).Put(cmd.Context(), path, UpdateSettingRequest{Value: value}, &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}

// ResetSettingEndpoint handles POST /api/settings/reset/{key...}.
type ResetSettingEndpoint struct{}

func (e *ResetSettingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/settings/reset/{key...}", e.handler
}

func (e *ResetSettingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Reset a setting to its default
//	@Tags			settings
//	@Produce		json
//	@Param			key	path		string	true	"Setting key"
//	@Success		200	{object}	SettingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/settings/reset/{key} [post]
func (e *ResetSettingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key, ok := settingKey(w, r)
	if !ok {
		return
	}
	store, ok := settingsStore(w, r)
	if !ok {
		return
	}

	if err := config.ResetToDefault(r.Context(), store, key); err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}
	entry, err := store.Get(r.Context(), key)
	if err != nil {
		writeError(w, settingStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{Entry: entry, Source: SourceFile})
}

func (e *ResetSettingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <key>",
		Short: "Reset a setting to its default value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp SettingResponse
			path := "/api/settings/reset/" + url.PathEscape(args[0])
			if err := newClient(getServerURL()).Post(cmd.Context(), path, nil, &resp); err != nil {
				return err
			}
			return api.Output(resp.Entry)
		},
	}
}
