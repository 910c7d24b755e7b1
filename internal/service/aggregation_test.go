package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
)

func entry(studentID string, status models.AttendanceStatus) models.StudentEntry {
	return models.StudentEntry{StudentID: studentID, Status: status}
}

func TestTallyEntries(t *testing.T) {
	records := []models.AttendanceRecord{
		{Entries: models.StudentEntryList{
			entry("s-1", models.AttendanceStatusHadir),
			entry("s-2", models.AttendanceStatusHadir),
			entry("s-3", models.AttendanceStatusSakit),
		}},
		{Entries: models.StudentEntryList{
			entry("s-1", models.AttendanceStatusHadir),
			entry("s-2", models.AttendanceStatusHadir),
			entry("s-3", models.AttendanceStatusAlpa),
		}},
	}

	tally := TallyEntries(records)
	assert.Equal(t, 4, tally.Hadir)
	assert.Equal(t, 1, tally.Sakit)
	assert.Equal(t, 1, tally.Alpa)
	assert.Equal(t, 6, tally.Total)
	assert.Equal(t, tally.Hadir+tally.Izin+tally.Sakit+tally.Dispensasi+tally.Alpa, tally.Total)
}

func TestPresenceRateRounding(t *testing.T) {
	// 4 of 5 present rounds to 80.
	records := []models.AttendanceRecord{
		{Entries: models.StudentEntryList{
			entry("s-1", models.AttendanceStatusHadir),
			entry("s-2", models.AttendanceStatusHadir),
			entry("s-3", models.AttendanceStatusHadir),
			entry("s-4", models.AttendanceStatusHadir),
			entry("s-5", models.AttendanceStatusIzin),
		}},
	}
	assert.Equal(t, 80, OverallPresenceRate(records))

	// 1 of 3 present rounds 33.33 down to 33.
	records = []models.AttendanceRecord{
		{Entries: models.StudentEntryList{
			entry("s-1", models.AttendanceStatusHadir),
			entry("s-2", models.AttendanceStatusAlpa),
			entry("s-3", models.AttendanceStatusAlpa),
		}},
	}
	assert.Equal(t, 33, OverallPresenceRate(records))

	// 2 of 3 present rounds 66.67 up to 67.
	records[0].Entries[1].Status = models.AttendanceStatusHadir
	assert.Equal(t, 67, OverallPresenceRate(records))

	assert.Equal(t, 0, OverallPresenceRate(nil))
}

func TestClassPresenceRatesEmptyClass(t *testing.T) {
	classes := []models.ClassRoom{
		{ID: "c-1", Name: "X-A", Grade: models.GradeX},
		{ID: "c-2", Name: "XI-B", Grade: models.GradeXI},
	}
	records := []models.AttendanceRecord{
		{ClassID: "c-1", Entries: models.StudentEntryList{
			entry("s-1", models.AttendanceStatusHadir),
			entry("s-2", models.AttendanceStatusIzin),
		}},
	}

	rates := ClassPresenceRates(records, classes)
	require.Len(t, rates, 2)
	assert.Equal(t, 50, rates[0].PresenceRate)
	assert.Equal(t, 0, rates[1].PresenceRate)
	assert.Equal(t, 0, rates[1].Tally.Total)
}

func TestClassViolationRecapTodayAndMonth(t *testing.T) {
	today := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	students := []models.Student{
		{ID: "s-1", ClassID: "c-1"},
		{ID: "s-2", ClassID: "c-2"},
	}
	classes := []models.ClassRoom{
		{ID: "c-1", Name: "X-A"},
		{ID: "c-2", Name: "XI-B"},
	}
	records := []models.ViolationRecord{
		{StudentID: "s-1", Date: today},
		{StudentID: "s-1", Date: today.AddDate(0, 0, -3)},
		{StudentID: "s-2", Date: today.AddDate(0, -1, 0)},
		{StudentID: "ghost", Date: today},
	}

	recap := ClassViolationRecap(records, students, classes, today)
	require.Len(t, recap, 2)
	assert.Equal(t, 1, recap[0].Today)
	assert.Equal(t, 2, recap[0].Month)
	assert.Equal(t, 0, recap[1].Today)
	assert.Equal(t, 0, recap[1].Month)
}

func TestCategoryDistributionSkipsDeletedItems(t *testing.T) {
	items := []models.ViolationItem{
		{ID: "v-1", Category: models.ViolationCategoryRingan},
		{ID: "v-2", Category: models.ViolationCategoryBerat},
	}
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	records := []models.ViolationRecord{
		{ViolationItemID: "v-1", Date: date},
		{ViolationItemID: "v-2", Date: date},
		{ViolationItemID: "v-2", Date: date},
		{ViolationItemID: "deleted", Date: date},
	}

	split := CategoryDistribution(records, items, "2026-08")
	require.Len(t, split, 3)
	assert.Equal(t, models.ViolationCategoryRingan, split[0].Category)
	assert.Equal(t, 1, split[0].Count)
	assert.Equal(t, 0, split[1].Count)
	assert.Equal(t, 2, split[2].Count)
}

func TestGenderDistributionSkipsMissingStudents(t *testing.T) {
	students := []models.Student{
		{ID: "s-1", Gender: models.GenderL},
		{ID: "s-2", Gender: models.GenderP},
	}
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	records := []models.ViolationRecord{
		{StudentID: "s-1", Date: date},
		{StudentID: "s-2", Date: date},
		{StudentID: "s-2", Date: date},
		{StudentID: "ghost", Date: date},
	}

	split := GenderDistribution(records, students, "2026-08")
	assert.Equal(t, 1, split.Male)
	assert.Equal(t, 2, split.Female)
}

func TestStudentPointTotals(t *testing.T) {
	items := []models.ViolationItem{
		{ID: "v-1", Category: models.ViolationCategoryBerat, Points: 75},
		{ID: "v-2", Category: models.ViolationCategoryRingan, Points: 5},
	}
	students := []models.Student{
		{ID: "s-1", FullName: "Andi Saputra", ClassID: "c-1"},
		{ID: "s-2", FullName: "Bunga Lestari", ClassID: "c-1"},
	}
	classes := []models.ClassRoom{{ID: "c-1", Name: "X-A"}}
	records := []models.ViolationRecord{
		{StudentID: "s-1", ViolationItemID: "v-1"},
		{StudentID: "s-1", ViolationItemID: "v-1"},
		{StudentID: "s-2", ViolationItemID: "v-2"},
		{StudentID: "s-2", ViolationItemID: "deleted"},
	}

	totals := StudentPointTotals(records, items, students, classes)
	require.Len(t, totals, 2)
	assert.Equal(t, "Andi Saputra", totals[0].StudentName)
	assert.Equal(t, 150, totals[0].Points)
	assert.Equal(t, 2, totals[0].Incidents)
	// The deleted item still counts as an incident but adds no points.
	assert.Equal(t, 5, totals[1].Points)
	assert.Equal(t, 2, totals[1].Incidents)

	top := TopPointStudents(records, items, students, classes, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "s-1", top[0].StudentID)
}

func TestStudentMonthlyTally(t *testing.T) {
	aug := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{Date: aug, Entries: models.StudentEntryList{entry("s-1", models.AttendanceStatusHadir), entry("s-2", models.AttendanceStatusAlpa)}},
		{Date: aug.AddDate(0, 0, 1), Entries: models.StudentEntryList{entry("s-1", models.AttendanceStatusSakit)}},
		{Date: aug.AddDate(0, -1, 0), Entries: models.StudentEntryList{entry("s-1", models.AttendanceStatusHadir)}},
	}

	tally := StudentMonthlyTally(records, "s-1", "2026-08")
	assert.Equal(t, 1, tally.Hadir)
	assert.Equal(t, 1, tally.Sakit)
	assert.Equal(t, 2, tally.Total)
}
