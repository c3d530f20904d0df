package grading

import "github.com/marklytics/marksheet-api/internal/models"

// Summarize derives the cohort-wide snapshot: mean SGPA and percentage, pass
// rate against the given SGPA threshold, the overall-grade histogram in
// first-occurrence order, and per-subject averages over only those students
// carrying each subject.
//
// An empty cohort yields a zero-valued snapshot (TotalStudents 0, zero
// averages, empty buckets) rather than an error.
func Summarize(cohort []models.StudentAggregate, passThreshold float64) models.CohortStatistics {
	stats := models.CohortStatistics{
		TotalStudents:   len(cohort),
		GradeHistogram:  []models.GradeCount{},
		SubjectAverages: []models.SubjectAverage{},
	}
	if len(cohort) == 0 {
		return stats
	}

	var sgpaSum, pctSum float64
	passed := 0
	gradeIdx := make(map[models.Grade]int)
	subjectIdx := make(map[string]int)
	subjectSums := []int{}

	for _, agg := range cohort {
		sgpaSum += agg.SGPA
		pctSum += float64(agg.Percentage)
		if agg.SGPA >= passThreshold {
			passed++
		}

		if i, ok := gradeIdx[agg.OverallGrade]; ok {
			stats.GradeHistogram[i].Count++
		} else {
			gradeIdx[agg.OverallGrade] = len(stats.GradeHistogram)
			stats.GradeHistogram = append(stats.GradeHistogram, models.GradeCount{Grade: agg.OverallGrade, Count: 1})
		}

		for _, subject := range agg.Subjects {
			if i, ok := subjectIdx[subject.SubjectName]; ok {
				subjectSums[i] += subject.MarksObtained
				stats.SubjectAverages[i].Students++
			} else {
				subjectIdx[subject.SubjectName] = len(stats.SubjectAverages)
				subjectSums = append(subjectSums, subject.MarksObtained)
				stats.SubjectAverages = append(stats.SubjectAverages, models.SubjectAverage{Subject: subject.SubjectName, Students: 1})
			}
		}
	}

	n := float64(len(cohort))
	stats.AverageSGPA = round2(sgpaSum / n)
	stats.AveragePercentage = round2(pctSum / n)
	stats.PassPercentage = round2(float64(passed) / n * 100)
	for i := range stats.SubjectAverages {
		stats.SubjectAverages[i].Average = round2(float64(subjectSums[i]) / float64(stats.SubjectAverages[i].Students))
	}
	return stats
}
