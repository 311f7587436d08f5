package domain

import "sort"

// BuildDayDescriptors merges the three canonicalized record sets into one
// descriptor per day of the window, ascending by date. It is a pure function:
// the same inputs produce the same output for any permutation of the source
// slices. Records outside the window are ignored.
func BuildDayDescriptors(window TimelineWindow, appts []Appointment, days []DayWindow, blocks []BlockedInterval) []DayDescriptor {
	windowsByDate := make(map[CalendarDate]DayWindow, len(days))
	for _, w := range days {
		// Duplicate records for one date: the oldest (lowest id) wins.
		if existing, ok := windowsByDate[w.Date]; ok && existing.ID <= w.ID {
			continue
		}
		windowsByDate[w.Date] = w
	}

	apptsByDate := make(map[CalendarDate][]Appointment)
	for _, a := range appts {
		apptsByDate[a.Date] = append(apptsByDate[a.Date], a)
	}

	blocksByDate := make(map[CalendarDate][]BlockedInterval)
	for _, b := range blocks {
		blocksByDate[b.Date] = append(blocksByDate[b.Date], b)
	}

	out := make([]DayDescriptor, 0, window.SpanDays)
	for i := 0; i < window.SpanDays; i++ {
		date := window.StartDate.AddDays(i)

		dayWindow, ok := windowsByDate[date]
		if !ok {
			dayWindow = DayWindow{Date: date, IsWorkingDay: false}
		}

		dayAppts := append([]Appointment(nil), apptsByDate[date]...)
		sort.Slice(dayAppts, func(i, j int) bool {
			if dayAppts[i].Start != dayAppts[j].Start {
				return dayAppts[i].Start.Before(dayAppts[j].Start)
			}
			return dayAppts[i].ID < dayAppts[j].ID
		})

		dayBlocks := append([]BlockedInterval(nil), blocksByDate[date]...)
		sort.Slice(dayBlocks, func(i, j int) bool {
			if dayBlocks[i].Start != dayBlocks[j].Start {
				return dayBlocks[i].Start.Before(dayBlocks[j].Start)
			}
			return dayBlocks[i].ID < dayBlocks[j].ID
		})

		out = append(out, DayDescriptor{
			Date:         date,
			Window:       dayWindow,
			Appointments: dayAppts,
			Blocks:       dayBlocks,
		})
	}
	return out
}

// ComputeStats tallies a descriptor sequence for the timeline header.
func ComputeStats(days []DayDescriptor) TimelineStats {
	var stats TimelineStats
	for _, day := range days {
		if day.Window.IsWorkingDay {
			stats.WorkingDays++
		}
		if len(day.Appointments) > 0 {
			stats.DaysWithAppointments++
		}
		for _, a := range day.Appointments {
			stats.TotalAppointments++
			switch a.Status {
			case StatusCreated:
				stats.CreatedCount++
			case StatusPending:
				stats.PendingCount++
			case StatusConfirmed:
				stats.ConfirmedCount++
			case StatusCancelled:
				stats.CancelledCount++
			case StatusCompleted:
				stats.CompletedCount++
			}
		}
	}
	return stats
}
