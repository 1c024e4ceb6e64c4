package query

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/celerix-dev/drowsewatch/pkg/schema"
)

const (
	CSVContentType = "text/csv"
	CSVTimeLayout  = "Jan 02, 2006 15:04:05"
)

var csvHeader = []string{
	"User Name",
	"Date & Time",
	"Eye Closure %",
	"Mouth Ratio",
	"Head Tilt (°)",
	"Yawn Frequency",
	"Drowsiness Level",
	"Emergency Contacted",
}

// ExportFileName is the download name for an export made at now.
func ExportFileName(now time.Time) string {
	return "drowsiness_reports_" + now.Format(time.DateOnly) + ".csv"
}

func csvRow(r schema.Report) string {
	emergency := "No"
	if r.EmergencyContacted {
		emergency = "Yes"
	}
	return strings.Join([]string{
		r.UserName,
		r.Timestamp.Format(CSVTimeLayout),
		fmt.Sprintf("%.0f", r.EyeClosurePercentage),
		fmt.Sprintf("%.2f", r.MouthAspectRatio),
		strconv.FormatFloat(r.HeadTiltAngle, 'f', -1, 64),
		strconv.Itoa(r.YawnFrequency),
		strconv.Itoa(int(r.DrowsinessLevel)),
		emergency,
	}, ",")
}

// WriteCSV writes the header and one line per report, separated by "\n"
// with no trailing newline. Fields are not quoted; the timestamp column
// contains a comma.
func WriteCSV(w io.Writer, reports []schema.Report) error {
	lines := make([]string, 0, len(reports)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, r := range reports {
		lines = append(lines, csvRow(r))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}
