package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/api"
	"github.com/jackzampolin/timetable/internal/schedule"
	"github.com/jackzampolin/timetable/internal/types"
)

// CompareRequest names two students to compare.
type CompareRequest struct {
	First  TimetableRequest `json:"first"`
	Second TimetableRequest `json:"second"`
}

// CompareResponse holds both assembled timetables and their comparison.
type CompareResponse struct {
	Timetable1 types.PersonalizedTimetable `json:"timetable1"`
	Timetable2 types.PersonalizedTimetable `json:"timetable2"`
	Comparison types.Comparison            `json:"comparison"`
}

// CompareEndpoint handles POST /api/compare.
type CompareEndpoint struct{}

func (e *CompareEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/compare", e.handler
}

func (e *CompareEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Compare two students
//	@Description	Build both timetables, then list common free hours and shared classes
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CompareRequest	true	"Both students"
//	@Success		200		{object}	CompareResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/compare [post]
func (e *CompareEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeBody(w, r, &req) {
		return
	}

	first, err := req.First.assemble(r.Context())
	if err != nil {
		writeError(w, statusOf(err), "first: "+err.Error())
		return
	}
	second, err := req.Second.assemble(r.Context())
	if err != nil {
		writeError(w, statusOf(err), "second: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CompareResponse{
		Timetable1: first,
		Timetable2: second,
		Comparison: schedule.Compare(first, second),
	})
}

func (e *CompareEndpoint) Command(getServerURL func() string) *cobra.Command {
	var firstFile, secondFile string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two students' timetables on the server",
		Long: `Compare two students' timetables on the server.

Each file holds a timetable request:
  {"campus": "62", "year": "1", "batch": "A6", "enrolledSubjectCodes": [...], "timeTable": {...}}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req CompareRequest
			if err := readJSON(firstFile, &req.First); err != nil {
				return err
			}
			if err := readJSON(secondFile, &req.Second); err != nil {
				return err
			}
			client := newClient(getServerURL())
			var resp CompareResponse
			if err := client.Post(cmd.Context(), "/api/compare", req, &resp); err != nil {
				return err
			}
			return api.Output(resp.Comparison)
		},
	}
	cmd.Flags().StringVar(&firstFile, "first", "", "First timetable request JSON file")
	cmd.Flags().StringVar(&secondFile, "second", "", "Second timetable request JSON file")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("second")
	return cmd
}

// CompareTimetablesRequest holds two already assembled timetables.
type CompareTimetablesRequest struct {
	Timetable1 types.PersonalizedTimetable `json:"timetable1"`
	Timetable2 types.PersonalizedTimetable `json:"timetable2"`
}

// CompareTimetablesEndpoint handles POST /api/compare/timetables.
type CompareTimetablesEndpoint struct{}

func (e *CompareTimetablesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/compare/timetables", e.handler
}

func (e *CompareTimetablesEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Compare two assembled timetables
//	@Tags			compare
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CompareTimetablesRequest	true	"Assembled timetables"
//	@Success		200		{object}	types.Comparison
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/compare/timetables [post]
func (e *CompareTimetablesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CompareTimetablesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, schedule.Compare(req.Timetable1, req.Timetable2))
}

func (e *CompareTimetablesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "compare-timetables <first.json> <second.json>",
		Short: "Compare two assembled timetables on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req CompareTimetablesRequest
			if err := readJSON(args[0], &req.Timetable1); err != nil {
				return err
			}
			if err := readJSON(args[1], &req.Timetable2); err != nil {
				return err
			}
			client := newClient(getServerURL())
			var resp types.Comparison
			if err := client.Post(cmd.Context(), "/api/compare/timetables", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
