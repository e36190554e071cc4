package service

import (
	"fmt"
	"math"

	"github.com/campusops/ccrm-api/internal/models"
)

// ComputeGPA aggregates quality points over GPA credits for the given
// enrollments. Dropped and ungraded records are excluded; an empty or
// fully excluded set yields exactly 0.0. Intermediate sums keep full
// precision; rounding happens only at display edges.
func ComputeGPA(enrollments []models.Enrollment) float64 {
	var qualityPoints float64
	var credits int
	for i := range enrollments {
		e := &enrollments[i]
		if e.Dropped || !e.Grade.CountsTowardGPA() {
			continue
		}
		qualityPoints += e.QualityPoints()
		credits += e.GPACredits()
	}
	if credits == 0 {
		return 0.0
	}
	return qualityPoints / float64(credits)
}

// CreditsAttempted counts credits of non-dropped, GPA-counting
// enrollments.
func CreditsAttempted(enrollments []models.Enrollment) int {
	total := 0
	for i := range enrollments {
		e := &enrollments[i]
		if !e.Dropped && e.Grade.CountsTowardGPA() {
			total += e.Course.Credits
		}
	}
	return total
}

// CreditsEarned counts credits of non-dropped, passing enrollments.
func CreditsEarned(enrollments []models.Enrollment) int {
	total := 0
	for i := range enrollments {
		e := &enrollments[i]
		if !e.Dropped && e.Grade.IsPassing() {
			total += e.Course.Credits
		}
	}
	return total
}

// AcademicStanding maps a cumulative GPA to the institutional label.
func AcademicStanding(gpa float64) string {
	switch {
	case gpa >= 9.0:
		return "Excellent"
	case gpa >= 8.0:
		return "Very Good"
	case gpa >= 7.0:
		return "Good"
	case gpa >= 6.0:
		return "Satisfactory"
	case gpa >= 5.0:
		return "Pass"
	default:
		return "Below Standard"
	}
}

// Round2 rounds a GPA for display to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func creditLimitMessage(current, adding, max int) string {
	return fmt.Sprintf("enrollment exceeds max credit limit: current %d, adding %d, max %d", current, adding, max)
}

func minimumCreditMessage(remaining, min int) string {
	return fmt.Sprintf("drop would result in %d credits, below minimum of %d", remaining, min)
}
