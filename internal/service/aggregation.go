package service

import (
	"sort"
	"time"

	"github.com/sman1kwanyar/e-presensi-api/internal/dto"
	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

// The aggregation helpers below work on in-memory snapshots of the
// collections. They never hit the database and tolerate dangling
// references: a record pointing at a deleted student, class or catalog
// item is skipped or counted as zero rather than failing the whole
// aggregate.

// TallyEntries counts per-status marks across attendance records.
func TallyEntries(records []models.AttendanceRecord) dto.StatusTally {
	var tally dto.StatusTally
	for _, record := range records {
		for _, entry := range record.Entries {
			addStatus(&tally, entry.Status)
		}
	}
	return tally
}

func addStatus(tally *dto.StatusTally, status models.AttendanceStatus) {
	switch status {
	case models.AttendanceStatusHadir:
		tally.Hadir++
	case models.AttendanceStatusIzin:
		tally.Izin++
	case models.AttendanceStatusSakit:
		tally.Sakit++
	case models.AttendanceStatusDispensasi:
		tally.Dispensasi++
	case models.AttendanceStatusAlpa:
		tally.Alpa++
	default:
		return
	}
	tally.Total++
}

// ClassPresenceRates tallies records per class and derives the rounded
// presence percentage. Classes without records report a zero rate.
func ClassPresenceRates(records []models.AttendanceRecord, classes []models.ClassRoom) []dto.ClassPresenceRate {
	byClass := make(map[string]*dto.StatusTally, len(classes))
	for _, record := range records {
		tally, ok := byClass[record.ClassID]
		if !ok {
			tally = &dto.StatusTally{}
			byClass[record.ClassID] = tally
		}
		for _, entry := range record.Entries {
			addStatus(tally, entry.Status)
		}
	}

	rates := make([]dto.ClassPresenceRate, 0, len(classes))
	for _, class := range classes {
		rate := dto.ClassPresenceRate{ClassID: class.ID, ClassName: class.Name, Grade: class.Grade}
		if tally, ok := byClass[class.ID]; ok {
			rate.Tally = *tally
		}
		rate.PresenceRate = rate.Tally.PresenceRate()
		rates = append(rates, rate)
	}
	return rates
}

// OverallPresenceRate is the rounded presence percentage across all records.
func OverallPresenceRate(records []models.AttendanceRecord) int {
	return TallyEntries(records).PresenceRate()
}

// ClassViolationRecap counts incidents per class for the given date and its
// month. Records whose student no longer exists are skipped.
func ClassViolationRecap(records []models.ViolationRecord, students []models.Student, classes []models.ClassRoom, date time.Time) []dto.ClassViolationRecap {
	classByStudent := make(map[string]string, len(students))
	for _, student := range students {
		classByStudent[student.ID] = student.ClassID
	}

	dayKey := date.Format("2006-01-02")
	monthKey := date.Format("2006-01")

	type counts struct{ today, month int }
	byClass := make(map[string]*counts)
	for _, record := range records {
		classID, ok := classByStudent[record.StudentID]
		if !ok {
			continue
		}
		c, ok := byClass[classID]
		if !ok {
			c = &counts{}
			byClass[classID] = c
		}
		if record.MonthKey() == monthKey {
			c.month++
			if record.DateKey() == dayKey {
				c.today++
			}
		}
	}

	recap := make([]dto.ClassViolationRecap, 0, len(classes))
	for _, class := range classes {
		row := dto.ClassViolationRecap{ClassID: class.ID, ClassName: class.Name, Grade: class.Grade}
		if c, ok := byClass[class.ID]; ok {
			row.Today = c.today
			row.Month = c.month
		}
		recap = append(recap, row)
	}
	return recap
}

// CategoryDistribution counts a month's incidents per catalog category.
// Records referencing a deleted catalog item are skipped.
func CategoryDistribution(records []models.ViolationRecord, items []models.ViolationItem, month string) []dto.CategoryCount {
	categoryByItem := make(map[string]models.ViolationCategory, len(items))
	for _, item := range items {
		categoryByItem[item.ID] = item.Category
	}

	counts := map[models.ViolationCategory]int{}
	for _, record := range records {
		if month != "" && record.MonthKey() != month {
			continue
		}
		category, ok := categoryByItem[record.ViolationItemID]
		if !ok {
			continue
		}
		counts[category]++
	}

	split := make([]dto.CategoryCount, 0, len(models.AllViolationCategories()))
	for _, category := range models.AllViolationCategories() {
		split = append(split, dto.CategoryCount{Category: category, Count: counts[category]})
	}
	return split
}

// GenderDistribution splits a month's incidents by student gender. Records
// whose student no longer exists are skipped.
func GenderDistribution(records []models.ViolationRecord, students []models.Student, month string) dto.GenderCount {
	genderByStudent := make(map[string]models.Gender, len(students))
	for _, student := range students {
		genderByStudent[student.ID] = student.Gender
	}

	var split dto.GenderCount
	for _, record := range records {
		if month != "" && record.MonthKey() != month {
			continue
		}
		switch genderByStudent[record.StudentID] {
		case models.GenderL:
			split.Male++
		case models.GenderP:
			split.Female++
		}
	}
	return split
}

// StudentMonthlyTally counts one student's per-status marks within a month.
func StudentMonthlyTally(records []models.AttendanceRecord, studentID, month string) dto.StatusTally {
	var tally dto.StatusTally
	for _, record := range records {
		if record.MonthKey() != month {
			continue
		}
		for _, entry := range record.Entries {
			if entry.StudentID == studentID {
				addStatus(&tally, entry.Status)
			}
		}
	}
	return tally
}

// StudentPointTotals sums catalog points per student across all incident
// records, sorted by points descending. Incidents referencing a deleted
// catalog item contribute zero points but still count as incidents.
func StudentPointTotals(records []models.ViolationRecord, items []models.ViolationItem, students []models.Student, classes []models.ClassRoom) []dto.StudentPointTotal {
	pointsByItem := make(map[string]int, len(items))
	for _, item := range items {
		pointsByItem[item.ID] = item.Points
	}
	classNames := make(map[string]string, len(classes))
	for _, class := range classes {
		classNames[class.ID] = class.Name
	}
	studentByID := make(map[string]models.Student, len(students))
	for _, student := range students {
		studentByID[student.ID] = student
	}

	byStudent := map[string]*dto.StudentPointTotal{}
	for _, record := range records {
		student, ok := studentByID[record.StudentID]
		if !ok {
			continue
		}
		total, ok := byStudent[record.StudentID]
		if !ok {
			total = &dto.StudentPointTotal{
				StudentID:   student.ID,
				StudentName: student.FullName,
				ClassName:   classNames[student.ClassID],
			}
			byStudent[record.StudentID] = total
		}
		total.Points += pointsByItem[record.ViolationItemID]
		total.Incidents++
	}

	totals := make([]dto.StudentPointTotal, 0, len(byStudent))
	for _, total := range byStudent {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		return totals[i].StudentName < totals[j].StudentName
	})
	return totals
}

// TopPointStudents returns the first n entries of StudentPointTotals.
func TopPointStudents(records []models.ViolationRecord, items []models.ViolationItem, students []models.Student, classes []models.ClassRoom, n int) []dto.StudentPointTotal {
	totals := StudentPointTotals(records, items, students, classes)
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals
}
