package grading

import "github.com/marklytics/marksheet-api/internal/models"

// BuildComparison projects a cohort into the side-by-side table: one row per
// distinct subject name (union across the cohort, first-occurrence order)
// with one cell per student, then the metric block over the same columns.
// A nil subject cell marks a subject the student does not carry; such cells
// are excluded from that row's class average. The modal overall grade breaks
// ties by the grade encountered first in column order.
func BuildComparison(cohort []models.StudentAggregate) models.ComparativeTable {
	table := models.ComparativeTable{
		Students: make([]models.StudentRef, 0, len(cohort)),
		Subjects: []models.SubjectComparison{},
		Grades:   make([]models.Grade, 0, len(cohort)),
	}
	if len(cohort) == 0 {
		return table
	}

	subjectIdx := make(map[string]int)
	for col, agg := range cohort {
		table.Students = append(table.Students, models.StudentRef{
			RollNumber: agg.Student.RollNumber,
			Name:       agg.Student.Name,
		})
		table.SGPAs = append(table.SGPAs, agg.SGPA)
		table.Percentages = append(table.Percentages, agg.Percentage)
		table.Grades = append(table.Grades, agg.OverallGrade)

		for _, subject := range agg.Subjects {
			i, ok := subjectIdx[subject.SubjectName]
			if !ok {
				i = len(table.Subjects)
				subjectIdx[subject.SubjectName] = i
				table.Subjects = append(table.Subjects, models.SubjectComparison{
					Subject: subject.SubjectName,
					Marks:   make([]*int, len(cohort)),
				})
			}
			marks := subject.MarksObtained
			table.Subjects[i].Marks[col] = &marks
		}
	}

	for i := range table.Subjects {
		sum, n := 0, 0
		for _, cell := range table.Subjects[i].Marks {
			if cell == nil {
				continue
			}
			sum += *cell
			n++
		}
		if n > 0 {
			table.Subjects[i].ClassAverage = round2(float64(sum) / float64(n))
		}
	}

	var sgpaSum, pctSum float64
	for col := range cohort {
		sgpaSum += table.SGPAs[col]
		pctSum += float64(table.Percentages[col])
	}
	n := float64(len(cohort))
	table.AverageSGPA = round2(sgpaSum / n)
	table.AveragePercentage = round2(pctSum / n)
	table.ModalGrade = modalGrade(table.Grades)
	return table
}

func modalGrade(grades []models.Grade) models.Grade {
	type bucket struct {
		grade models.Grade
		count int
	}
	idx := make(map[models.Grade]int)
	buckets := []bucket{}
	for _, g := range grades {
		if i, ok := idx[g]; ok {
			buckets[i].count++
		} else {
			idx[g] = len(buckets)
			buckets = append(buckets, bucket{grade: g, count: 1})
		}
	}
	best := bucket{}
	for _, b := range buckets {
		// strictly greater keeps the first-encountered grade on ties
		if b.count > best.count {
			best = b
		}
	}
	return best.grade
}
