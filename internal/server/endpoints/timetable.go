package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/dataset"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/schema"
	"github.com/jackzampolin/timetable/internal/session"
	"github.com/jackzampolin/timetable/internal/svcctx"
	"github.com/jackzampolin/timetable/internal/types"
)

// errInvalidRequest marks a request that cannot be served as sent.
var errInvalidRequest = errors.New("invalid request")

// TimetableRequest selects a timetable source and a student.
//
// The source is, in order of preference: the inline timeTable and
// subjects, the upload named by sessionId, or the campus data file in
// the server's home directory.
type TimetableRequest struct {
	Campus               string          `json:"campus,omitempty"`
	Year                 string          `json:"year,omitempty"`
	Batch                string          `json:"batch"`
	EnrolledSubjectCodes []string        `json:"enrolledSubjectCodes"`
	TimeTable            json.RawMessage `json:"timeTable,omitempty" swaggertype:"object"`
	Subjects             json.RawMessage `json:"subjects,omitempty" swaggertype:"array,object"`
	SessionID            string          `json:"sessionId,omitempty"`
}

// source is a resolved timetable grid and subject directory.
type source struct {
	campus, year string
	timetable    types.RawTimetable
	subjects     []types.Subject
	report       dataset.Report
}

func present(doc json.RawMessage) bool {
	doc = bytes.TrimSpace(doc)
	return len(doc) > 0 && !bytes.Equal(doc, []byte("null"))
}

// load resolves the request's timetable source.
func (req *TimetableRequest) load(ctx context.Context) (source, error) {
	src := source{campus: req.Campus, year: req.Year}
	logger := svcctx.LoggerFrom(ctx)

	switch {
	case present(req.TimeTable) || present(req.Subjects):
		for kind, doc := range map[string]json.RawMessage{"timetable": req.TimeTable, "subjects": req.Subjects} {
			if !present(doc) {
				continue
			}
			if err := schema.Validate(kind, doc); err != nil {
				logger.Warn("input does not match schema, decoding leniently", "kind", kind, "error", err)
			}
		}
		tt, report, err := dataset.DecodeTimetable(req.TimeTable)
		if err != nil {
			return src, err
		}
		subjects, subjReport, err := dataset.DecodeSubjects(req.Subjects)
		if err != nil {
			return src, err
		}
		report.Merge(subjReport)
		src.timetable, src.subjects, src.report = tt, subjects, report

	case req.SessionID != "":
		store := svcctx.SessionsFrom(ctx)
		if store == nil {
			return src, errors.New("session store not available")
		}
		upload, err := store.Get(req.SessionID)
		if err != nil {
			return src, err
		}
		if src.campus == "" {
			src.campus = upload.Campus
		}
		if src.year == "" {
			src.year = upload.Year
		}
		src.timetable, src.subjects = upload.Timetable, upload.Subjects

	default:
		h := svcctx.HomeFrom(ctx)
		if h == nil || req.Campus == "" || !h.HasCampusData(req.Campus) {
			return src, fmt.Errorf("%w: no timeTable, sessionId or campus data file", errInvalidRequest)
		}
		sections, report, err := dataset.ReadSections(h.CampusDataPath(req.Campus))
		if err != nil {
			return src, err
		}
		section, err := dataset.Pick(sections, req.Year)
		if err != nil {
			return src, err
		}
		src.timetable, src.subjects, src.report = section.Timetable, section.Subjects, report
	}

	if src.report.Dropped > 0 {
		logger.Warn("dropped malformed input elements",
			"dropped", src.report.Dropped, "problems", src.report.Problems)
	}
	return src, nil
}

// assemble builds the personalized timetable a request describes.
func (req *TimetableRequest) assemble(ctx context.Context) (types.PersonalizedTimetable, error) {
	if strings.TrimSpace(req.Batch) == "" {
		return nil, fmt.Errorf("%w: batch is required", errInvalidRequest)
	}
	src, err := req.load(ctx)
	if err != nil {
		return nil, err
	}

	profiles := svcctx.ProfilesFrom(ctx)
	if profiles == nil {
		return nil, errors.New("profile registry not available")
	}
	profile, err := profiles.Lookup(src.campus, src.year)
	if err != nil {
		return nil, err
	}

	a := schedule.NewAssembler(profile, src.subjects, schedule.WithLogger(svcctx.LoggerFrom(ctx)))
	tt, _ := a.Assemble(src.timetable, types.StudentContext{
		Batch:                strings.TrimSpace(req.Batch),
		EnrolledSubjectCodes: req.EnrolledSubjectCodes,
	})
	return tt, nil
}

// statusOf maps request errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, schedule.ErrUnknownProfile),
		errors.Is(err, dataset.ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, dataset.ErrNoSection):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// TimetableEndpoint handles POST /api/timetable.
type TimetableEndpoint struct{}

func (e *TimetableEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/timetable", e.handler
}

func (e *TimetableEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Build a personalized timetable
//	@Description	Filter a campus timetable down to one student's classes
//	@Tags			timetable
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TimetableRequest	true	"Timetable source and student"
//	@Success		200		{object}	types.PersonalizedTimetable
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Router			/api/timetable [post]
func (e *TimetableEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req TimetableRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tt, err := req.assemble(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

// timetableFlags are the CLI flags shared by commands that send a
// TimetableRequest.
type timetableFlags struct {
	campus, year, batch string
	enrolled            []string
	timetableFile       string
	subjectsFile        string
	sessionID           string
}

func (f *timetableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.campus, "campus", "", "Campus (62, 128 or bca)")
	cmd.Flags().StringVar(&f.year, "year", "", "Year of study (1-5)")
	cmd.Flags().StringVar(&f.batch, "batch", "", "Student batch, e.g. A6")
	cmd.Flags().StringSliceVar(&f.enrolled, "subject", nil, "Enrolled subject code (repeatable)")
	cmd.Flags().StringVar(&f.timetableFile, "timetable", "", "Raw timetable JSON file")
	cmd.Flags().StringVar(&f.subjectsFile, "subjects", "", "Subject directory JSON file")
	cmd.Flags().StringVar(&f.sessionID, "session", "", "Upload session ID")
	_ = cmd.MarkFlagRequired("batch")
}

func (f *timetableFlags) request() (TimetableRequest, error) {
	req := TimetableRequest{
		Campus:               f.campus,
		Year:                 f.year,
		Batch:                f.batch,
		EnrolledSubjectCodes: f.enrolled,
		SessionID:            f.sessionID,
	}
	var err error
	if req.TimeTable, err = readDoc(f.timetableFile); err != nil {
		return req, err
	}
	if req.Subjects, err = readDoc(f.subjectsFile); err != nil {
		return req, err
	}
	return req, nil
}

// readDoc reads a JSON file into a raw message; an empty path is no document.
func readDoc(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", path, dataset.ErrInvalidJSON)
	}
	return data, nil
}

func (e *TimetableEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags timetableFlags
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Build a personalized timetable on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			client := newClient(getServerURL())
			var resp types.PersonalizedTimetable
			if err := client.Post(cmd.Context(), "/api/timetable", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	flags.register(cmd)
	return cmd
}
