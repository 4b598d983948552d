package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/svcctx"
)

// ProfileResponse describes one campus/year profile.
type ProfileResponse struct {
	Key             string   `json:"key"`
	Campus          string   `json:"campus"`
	Band            string   `json:"band"`
	Description     string   `json:"description"`
	Inclusion       string   `json:"inclusion"`
	DefaultBatches  []string `json:"default_batches"`
	Aliases         []string `json:"aliases,omitempty"`
	AllowCustom     bool     `json:"allow_custom"`
	NonClassMarkers []string `json:"non_class_markers"`
}

// ProfilesResponse lists the loaded profiles.
type ProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}

func profileResponse(p schedule.Profile) ProfileResponse {
	defaults := p.Batches.Defaults
	if defaults == nil {
		defaults = []string{}
	}
	return ProfileResponse{
		Key:             p.Key,
		Campus:          p.Campus,
		Band:            p.Band,
		Description:     p.Description,
		Inclusion:       p.Inclusion.String(),
		DefaultBatches:  defaults,
		Aliases:         p.Batches.Aliases,
		AllowCustom:     p.Entry.AllowCustom,
		NonClassMarkers: p.NonClassMarkers,
	}
}

// ListProfilesEndpoint handles GET /api/profiles.
type ListProfilesEndpoint struct{}

func (e *ListProfilesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/profiles", e.handler
}

func (e *ListProfilesEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List campus profiles
//	@Description	Profiles with their default batch sets, as currently configured
//	@Tags			profiles
//	@Produce		json
//	@Success		200	{object}	ProfilesResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/profiles [get]
func (e *ListProfilesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	profiles := svcctx.ProfilesFrom(r.Context())
	if profiles == nil {
		writeError(w, http.StatusServiceUnavailable, "profile registry not available")
		return
	}
	resp := ProfilesResponse{Profiles: []ProfileResponse{}}
	for _, p := range profiles.List() {
		resp.Profiles = append(resp.Profiles, profileResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListProfilesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List campus profiles and their default batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(getServerURL())
			var resp ProfilesResponse
			if err := client.Get(cmd.Context(), "/api/profiles", &resp); err != nil {
				return err
			}
			return api.Output(resp.Profiles)
		},
	}
}
