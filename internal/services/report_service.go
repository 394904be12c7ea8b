package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"fleetsnap/internal/dataprocessing"
	apperrors "fleetsnap/internal/errors"
	"fleetsnap/internal/insights"
	"fleetsnap/internal/store"
	"fleetsnap/pkg/contracts/domain"
)

// topDriverCount caps the per-driver conveyance table in the report.
const topDriverCount = 5

// ReportService assembles report documents from a ticket's stored
// tables. The reference date always comes from the caller: nothing in
// here reads the wall clock, so rebuilding a report for the same ticket
// and date yields the same document.
type ReportService struct {
	storageDir string
	insights   *insights.Service
	logger     *slog.Logger
}

// NewReportService creates a report service reading ticket databases
// from storageDir.
func NewReportService(storageDir string, insightSvc *insights.Service, logger *slog.Logger) *ReportService {
	return &ReportService{
		storageDir: storageDir,
		insights:   insightSvc,
		logger:     logger.With(slog.String("component", "report_service")),
	}
}

// BuildReport computes the report document for a ticket: HOS summary
// and 4-week trend, plus sections for whatever other tables the ticket
// carries. Filters are equality matches against normalized HOS columns.
func (s *ReportService) BuildReport(ctx context.Context, ticket string, trendEnd time.Time, filters map[string]string) (domain.ReportDocument, error) {
	session, err := store.OpenTicket(s.storageDir, ticket)
	if err != nil {
		return domain.ReportDocument{}, err
	}
	defer session.Close()

	hos, err := session.LoadTable(ctx, string(domain.ReportTypeHOS))
	if err != nil {
		return domain.ReportDocument{}, err
	}
	hos = applyFilters(hos, filters)

	summary, err := dataprocessing.SummarizeWeek(hos, trendEnd)
	if err != nil {
		return domain.ReportDocument{}, err
	}
	trend, err := dataprocessing.BuildTrend(hos, trendEnd)
	if err != nil {
		return domain.ReportDocument{}, err
	}

	doc := domain.ReportDocument{
		Ticket:          ticket,
		TrendEnd:        trendEnd.Format("2006-01-02"),
		Summary:         summary,
		Trend:           trend,
		SummaryInsights: s.insights.SummaryInsight(ctx, summary),
		TrendInsights:   s.insights.TrendInsight(ctx, trend),
	}

	if inbox, ok, err := s.loadOptional(ctx, session, domain.ReportTypeSafetyInbox); err != nil {
		return domain.ReportDocument{}, err
	} else if ok {
		section := s.safetyInboxSection(ctx, inbox, trendEnd)
		doc.SafetyInbox = &section
	}

	if pc, ok, err := s.loadOptional(ctx, session, domain.ReportTypePersonnelConveyance); err != nil {
		return domain.ReportDocument{}, err
	} else if ok {
		section := conveyanceSection(pc)
		doc.Conveyance = &section
	}

	if unassigned, ok, err := s.loadOptional(ctx, session, domain.ReportTypeUnassignedHOS); err != nil {
		return domain.ReportDocument{}, err
	} else if ok {
		section := unassignedSection(unassigned)
		doc.Unassigned = &section
	}

	s.logger.InfoContext(ctx, "report built",
		slog.String("ticket", ticket),
		slog.String("trend_end", doc.TrendEnd),
		slog.Int("total_current", summary.TotalCurrent),
	)
	return doc, nil
}

func (s *ReportService) loadOptional(ctx context.Context, session *store.Session, tag domain.ReportType) (*dataprocessing.Table, bool, error) {
	table, err := session.LoadTable(ctx, string(tag))
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return table, true, nil
}

// applyFilters keeps only the rows whose cell in each named column
// equals the wanted value. A filter naming an absent column matches
// nothing.
func applyFilters(t *dataprocessing.Table, filters map[string]string) *dataprocessing.Table {
	for name, want := range filters {
		col := t.ColumnIndex(name)
		t = t.Filter(func(row []string) bool {
			if col < 0 {
				return false
			}
			return strings.TrimSpace(row[col]) == want
		})
	}
	return t
}

// weekCounts partitions a date column into the reference week and the
// week before it.
func weekCounts(t *dataprocessing.Table, col int, ref time.Time) (current, previous int) {
	currentWeek := domain.WeekOf(ref)
	previousWeek := currentWeek.Previous()
	for i := range t.Rows {
		ts, ok := dataprocessing.ParseTimestamp(t.Cell(i, col))
		if !ok {
			continue
		}
		switch {
		case currentWeek.Contains(ts):
			current++
		case previousWeek.Contains(ts):
			previous++
		}
	}
	return current, previous
}

func (s *ReportService) safetyInboxSection(ctx context.Context, t *dataprocessing.Table, ref time.Time) domain.SafetyInboxSection {
	section := domain.SafetyInboxSection{}

	if timeCol := t.ColumnIndex("time"); timeCol >= 0 {
		cur, prev := weekCounts(t, timeCol, ref)
		section.Summary = domain.SummaryRecord{
			TotalCurrent:  cur,
			TotalPrevious: prev,
			TotalChange:   cur - prev,
		}
	} else {
		section.Summary = domain.SummaryRecord{TotalCurrent: t.NumRows()}
	}

	if statusCol := t.ColumnIndex("review_status"); statusCol >= 0 {
		for i := range t.Rows {
			if strings.EqualFold(strings.TrimSpace(t.Cell(i, statusCol)), "dismissed") {
				section.DismissedCount++
			}
		}
	}

	if eventCol := t.ColumnIndex("event_type"); eventCol >= 0 {
		counts := make(map[string]int)
		var order []string
		for i := range t.Rows {
			event := strings.TrimSpace(t.Cell(i, eventCol))
			if event == "" {
				continue
			}
			if _, seen := counts[event]; !seen {
				order = append(order, event)
			}
			counts[event]++
		}
		for _, event := range order {
			section.EventBreakdown = append(section.EventBreakdown,
				domain.BreakdownEntry{Name: event, Current: counts[event]})
		}
		sort.SliceStable(section.EventBreakdown, func(i, j int) bool {
			return section.EventBreakdown[i].Current > section.EventBreakdown[j].Current
		})
	}

	section.Insights = s.insights.SummaryInsight(ctx, section.Summary)
	return section
}

func conveyanceSection(t *dataprocessing.Table) domain.ConveyanceSection {
	section := domain.ConveyanceSection{}
	driverCol := t.ColumnIndex("driver_name")
	hoursCol := t.ColumnIndex("pc_hours")
	if hoursCol < 0 {
		return section
	}

	perDriver := make(map[string]float64)
	var order []string
	for i := range t.Rows {
		hours := cellFloat(t, i, hoursCol)
		section.TotalHours += hours
		if driverCol < 0 {
			continue
		}
		driver := strings.TrimSpace(t.Cell(i, driverCol))
		if driver == "" {
			continue
		}
		if _, seen := perDriver[driver]; !seen {
			order = append(order, driver)
		}
		perDriver[driver] += hours
	}

	section.TotalDuration = dataprocessing.HoursToHMS(section.TotalHours)

	drivers := make([]domain.DriverHours, 0, len(order))
	for _, driver := range order {
		drivers = append(drivers, domain.DriverHours{
			Driver:   driver,
			Hours:    perDriver[driver],
			Duration: dataprocessing.HoursToHMS(perDriver[driver]),
		})
	}
	sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].Hours > drivers[j].Hours })
	if len(drivers) > topDriverCount {
		drivers = drivers[:topDriverCount]
	}
	section.TopDrivers = drivers
	return section
}

func unassignedSection(t *dataprocessing.Table) domain.UnassignedSection {
	section := domain.UnassignedSection{}
	vehicleCol := t.ColumnIndex("vehicle")
	hoursCol := t.ColumnIndex("unassigned_hours")
	segmentsCol := t.ColumnIndex("unassigned_segments")
	if hoursCol < 0 {
		return section
	}

	type vehicleAgg struct {
		hours    float64
		segments int
	}
	perVehicle := make(map[string]*vehicleAgg)
	var order []string
	for i := range t.Rows {
		hours := cellFloat(t, i, hoursCol)
		segments := 0
		if segmentsCol >= 0 {
			segments = int(cellFloat(t, i, segmentsCol))
		}
		section.TotalHours += hours
		section.TotalSegments += segments

		if vehicleCol < 0 {
			continue
		}
		vehicle := strings.TrimSpace(t.Cell(i, vehicleCol))
		if vehicle == "" {
			continue
		}
		agg, seen := perVehicle[vehicle]
		if !seen {
			agg = &vehicleAgg{}
			perVehicle[vehicle] = agg
			order = append(order, vehicle)
		}
		agg.hours += hours
		agg.segments += segments
	}

	vehicles := make([]domain.VehicleHours, 0, len(order))
	for _, vehicle := range order {
		agg := perVehicle[vehicle]
		vehicles = append(vehicles, domain.VehicleHours{
			Vehicle:  vehicle,
			Hours:    agg.hours,
			Segments: agg.segments,
		})
	}
	sort.SliceStable(vehicles, func(i, j int) bool { return vehicles[i].Hours > vehicles[j].Hours })
	section.ByVehicle = vehicles

	section.Insights = fmt.Sprintf("Unassigned driving totaled %.1f hours across %d segments.",
		section.TotalHours, section.TotalSegments)
	return section
}

// cellFloat reads a normalized numeric cell, treating anything
// unparseable as zero.
func cellFloat(t *dataprocessing.Table, row, col int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(t.Cell(row, col)), 64)
	if err != nil {
		return 0
	}
	return v
}
