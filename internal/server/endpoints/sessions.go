package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/dataset"
	"github.com/jackzampolin/timetable/internal/schema"
	"github.com/jackzampolin/timetable/internal/session"
	"github.com/jackzampolin/timetable/internal/svcctx"
)

// CreateSessionRequest uploads a timetable for later requests.
type CreateSessionRequest struct {
	Campus    string          `json:"campus"`
	Year      string          `json:"year"`
	TimeTable json.RawMessage `json:"timeTable" swaggertype:"object"`
	Subjects  json.RawMessage `json:"subjects,omitempty" swaggertype:"array,object"`
}

// CreateSessionResponse identifies a stored upload.
type CreateSessionResponse struct {
	SessionID string         `json:"sessionId"`
	Entries   int            `json:"entries"`
	Subjects  int            `json:"subjects"`
	Report    dataset.Report `json:"report"`
}

// SessionResponse describes a stored upload without its contents.
type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	Campus    string    `json:"campus"`
	Year      string    `json:"year"`
	Days      int       `json:"days"`
	Entries   int       `json:"entries"`
	Subjects  int       `json:"subjects"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateSessionEndpoint handles POST /api/sessions.
type CreateSessionEndpoint struct{}

func (e *CreateSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/sessions", e.handler
}

func (e *CreateSessionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload a timetable
//	@Description	Store a campus timetable and subject directory under a new session ID
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateSessionRequest	true	"Timetable upload"
//	@Success		201		{object}	CreateSessionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/sessions [post]
func (e *CreateSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	store := svcctx.SessionsFrom(ctx)
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "session store not available")
		return
	}
	// Uploads are only useful if a profile will accept them later.
	if profiles := svcctx.ProfilesFrom(ctx); profiles != nil {
		if _, err := profiles.Lookup(req.Campus, req.Year); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := schema.Validate("timetable", req.TimeTable); err != nil {
		svcctx.LoggerFrom(ctx).Warn("upload does not match schema, decoding leniently", "error", err)
	}
	tt, report, err := dataset.DecodeTimetable(req.TimeTable)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	subjects, subjReport, err := dataset.DecodeSubjects(req.Subjects)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report.Merge(subjReport)

	upload := store.Create(req.Campus, req.Year, tt, subjects)
	svcctx.LoggerFrom(ctx).Info("stored timetable upload",
		"session", upload.ID, "campus", upload.Campus, "year", upload.Year,
		"entries", tt.Entries(), "dropped", report.Dropped)

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID: upload.ID,
		Entries:   tt.Entries(),
		Subjects:  len(subjects),
		Report:    report,
	})
}

func (e *CreateSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	var campus, year, timetableFile, subjectsFile string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload a timetable and get a session ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := CreateSessionRequest{Campus: campus, Year: year}
			var err error
			if req.TimeTable, err = readDoc(timetableFile); err != nil {
				return err
			}
			if req.Subjects, err = readDoc(subjectsFile); err != nil {
				return err
			}
			client := newClient(getServerURL())
			var resp CreateSessionResponse
			if err := client.Post(cmd.Context(), "/api/sessions", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&campus, "campus", "", "Campus (62, 128 or bca)")
	cmd.Flags().StringVar(&year, "year", "1", "Year of study (1-5)")
	cmd.Flags().StringVar(&timetableFile, "timetable", "", "Raw timetable JSON file")
	cmd.Flags().StringVar(&subjectsFile, "subjects", "", "Subject directory JSON file")
	_ = cmd.MarkFlagRequired("campus")
	_ = cmd.MarkFlagRequired("timetable")
	return cmd
}

// GetSessionEndpoint handles GET /api/sessions/{id}.
type GetSessionEndpoint struct{}

func (e *GetSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}", e.handler
}

func (e *GetSessionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get an upload
//	@Description	Describe a stored timetable upload
//	@Tags			sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	SessionResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/sessions/{id} [get]
func (e *GetSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.SessionsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "session store not available")
		return
	}

	upload, err := store.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		SessionID: upload.ID,
		Campus:    upload.Campus,
		Year:      upload.Year,
		Days:      len(upload.Timetable),
		Entries:   upload.Timetable.Entries(),
		Subjects:  len(upload.Subjects),
		CreatedAt: upload.CreatedAt,
	})
}

func (e *GetSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Describe an upload session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(getServerURL())
			var resp SessionResponse
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteSessionEndpoint handles DELETE /api/sessions/{id}.
type DeleteSessionEndpoint struct{}

func (e *DeleteSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/sessions/{id}", e.handler
}

func (e *DeleteSessionEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete an upload
//	@Tags			sessions
//	@Param			id	path	string	true	"Session ID"
//	@Success		204	"No Content"
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/sessions/{id} [delete]
func (e *DeleteSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.SessionsFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "session store not available")
		return
	}

	if err := store.Delete(r.PathValue("id")); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an upload session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/sessions/"+args[0]); err != nil {
				return err
			}
			fmt.Println("Session deleted")
			return nil
		},
	}
}
