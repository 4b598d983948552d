package endpoints

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/timetable/internal/export"
	"github.com/jackzampolin/timetable/internal/svcctx"
)

// dateLayout is the term date format.
const dateLayout = "2006-01-02"

// ICSRequest is a timetable request plus the term to export.
type ICSRequest struct {
	TimetableRequest
	Start    string `json:"start" example:"2026-01-05"`
	End      string `json:"end" example:"2026-04-30"`
	Prefix   string `json:"prefix,omitempty"`
	Timezone string `json:"timezone,omitempty" example:"Asia/Kolkata"`
}

// options turns the request into export options. The zone falls back to
// the configured export.timezone.
func (req *ICSRequest) options(defaultZone string) (export.Options, error) {
	zone := req.Timezone
	if zone == "" {
		zone = defaultZone
	}
	loc, err := export.LoadLocation(zone)
	if err != nil {
		return export.Options{}, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	start, err := time.ParseInLocation(dateLayout, req.Start, loc)
	if err != nil {
		return export.Options{}, fmt.Errorf("%w: start must be YYYY-MM-DD", errInvalidRequest)
	}
	end, err := time.ParseInLocation(dateLayout, req.End, loc)
	if err != nil {
		return export.Options{}, fmt.Errorf("%w: end must be YYYY-MM-DD", errInvalidRequest)
	}
	return export.Options{Start: start, End: end, Location: loc, Prefix: req.Prefix}, nil
}

// ICSEndpoint handles POST /api/timetable/ics.
type ICSEndpoint struct{}

func (e *ICSEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/timetable/ics", e.handler
}

func (e *ICSEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Export a timetable as iCalendar
//	@Description	Build a personalized timetable and return it as weekly recurring events
//	@Tags			timetable
//	@Accept			json
//	@Produce		text/calendar
//	@Param			body	body		ICSRequest	true	"Timetable request and term dates"
//	@Success		200		{string}	string
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/timetable/ics [post]
func (e *ICSEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ICSRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	zone := ""
	if cfg := svcctx.ConfigFrom(ctx); cfg != nil {
		zone = cfg.Get().Export.Timezone
	}
	opts, err := req.options(zone)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	tt, err := req.assemble(ctx)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	var buf bytes.Buffer
	result, err := export.WriteICS(&buf, tt, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	svcctx.LoggerFrom(ctx).Debug("exported calendar", "events", result.Events, "skipped", result.Skipped)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="timetable.ics"`)
	w.Header().Set("X-Timetable-Events", strconv.Itoa(result.Events))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (e *ICSEndpoint) Command(getServerURL func() string) *cobra.Command {
	var flags timetableFlags
	var start, end, prefix, zone, outFile string
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export a personalized timetable as an .ics calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := flags.request()
			if err != nil {
				return err
			}
			req := ICSRequest{TimetableRequest: tr, Start: start, End: end, Prefix: prefix, Timezone: zone}
			client := newClient(getServerURL())
			body, err := client.PostRaw(cmd.Context(), "/api/timetable/ics", req)
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = os.Stdout.Write(body)
				return err
			}
			return os.WriteFile(outFile, body, 0644)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "First day of term (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of term (YYYY-MM-DD)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix for event titles")
	cmd.Flags().StringVar(&zone, "timezone", "", "Timezone of class times (default: server export.timezone)")
	cmd.Flags().StringVar(&outFile, "file", "", "Write the calendar to this file instead of stdout")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
