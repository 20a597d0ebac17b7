package memory

import (
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// Store groups the three in-memory repositories.
type Store struct {
	Courses     *CourseRepository
	Assignments *AssignmentRepository
	Performance *PerformanceRepository
}

// NewStore creates empty repositories sharing one latency profile.
func NewStore(latency Latency) *Store {
	return &Store{
		Courses:     NewCourseRepository(latency),
		Assignments: NewAssignmentRepository(latency),
		Performance: NewPerformanceRepository(latency),
	}
}

// Seed loads the demo dataset with due dates relative to now.
func (s *Store) Seed(now time.Time) {
	courses, assignments, samples := DemoData(now)
	s.Courses.t.seed(courses)
	s.Assignments.t.seed(assignments)
	s.Performance.t.seed(samples)
}

func ptr[T any](v T) *T { return &v }

// DemoData returns a small, internally consistent dataset: four courses,
// their assignments and twelve weeks of performance samples per course.
func DemoData(now time.Time) ([]course.Course, []assignment.Assignment, []performance.Sample) {
	day := timeutil.StartOfDay(now)
	in := func(days int) time.Time { return day.AddDate(0, 0, days) }

	courses := []course.Course{
		{ID: 1, Title: "Calculus II", Code: "MATH 202", Instructor: "Dr. Sarah Mitchell", Credits: 4, Progress: 72, Grade: ptr(91.5), LetterGrade: ptr("A"), NextDeadline: ptr(in(3)), CompletedAssignments: 2, TotalAssignments: 3},
		{ID: 2, Title: "Organic Chemistry", Code: "CHEM 231", Instructor: "Prof. David Okafor", Credits: 4, Progress: 58, Grade: ptr(84.0), LetterGrade: ptr("B"), NextDeadline: ptr(in(-2)), CompletedAssignments: 1, TotalAssignments: 3},
		{ID: 3, Title: "World Literature", Code: "ENGL 150", Instructor: "Dr. Elena Petrova", Credits: 3, Progress: 80, Grade: ptr(88.0), LetterGrade: ptr("B"), NextDeadline: ptr(in(10)), CompletedAssignments: 2, TotalAssignments: 2},
		{ID: 4, Title: "Data Structures", Code: "CS 240", Instructor: "Prof. James Liu", Credits: 3, Progress: 35, NextDeadline: ptr(in(6)), CompletedAssignments: 0, TotalAssignments: 2},
	}

	assignments := []assignment.Assignment{
		{ID: 1, Title: "Integration Techniques Problem Set", CourseID: 1, DueDate: in(-14), Status: assignment.StatusCompleted, Grade: ptr(94.0), LetterGrade: ptr("A"), Weight: 15, Type: "homework"},
		{ID: 2, Title: "Series and Sequences Quiz", CourseID: 1, DueDate: in(-5), Status: assignment.StatusCompleted, Grade: ptr(89.0), LetterGrade: ptr("B"), Weight: 10, Type: "quiz"},
		{ID: 3, Title: "Midterm Exam", CourseID: 1, DueDate: in(3), Status: assignment.StatusPending, Weight: 30, Type: "exam"},
		{ID: 4, Title: "Lab Report: Synthesis of Aspirin", CourseID: 2, DueDate: in(-10), Status: assignment.StatusCompleted, Grade: ptr(84.0), LetterGrade: ptr("B"), Weight: 20, Type: "lab"},
		{ID: 5, Title: "Reaction Mechanisms Worksheet", CourseID: 2, DueDate: in(-2), Status: assignment.StatusOverdue, Weight: 10, Type: "homework"},
		{ID: 6, Title: "Stereochemistry Quiz", CourseID: 2, DueDate: in(12), Status: assignment.StatusPending, Weight: 10, Type: "quiz"},
		{ID: 7, Title: "Essay: Magical Realism", CourseID: 3, DueDate: in(-20), Status: assignment.StatusCompleted, Grade: ptr(86.0), LetterGrade: ptr("B"), Weight: 25, Type: "essay"},
		{ID: 8, Title: "Reading Response, Week 6", CourseID: 3, DueDate: in(-3), Status: assignment.StatusCompleted, Grade: ptr(90.0), LetterGrade: ptr("A"), Weight: 5, Type: "homework"},
		{ID: 9, Title: "Binary Search Trees Project", CourseID: 4, DueDate: in(6), Status: assignment.StatusPending, Weight: 25, Type: "project"},
		{ID: 10, Title: "Hash Table Design Draft", CourseID: 4, DueDate: in(20), Status: assignment.StatusDraft, Weight: 10, Type: "project"},
	}
	for i := range assignments {
		for _, c := range courses {
			if c.ID == assignments[i].CourseID {
				assignments[i].CourseTitle = c.Title
				assignments[i].CourseCode = c.Code
			}
		}
	}

	base := map[int]float64{1: 86, 2: 78, 3: 84, 4: 70}
	samples := make([]performance.Sample, 0, len(courses)*12)
	id := 1
	for week := 11; week >= 0; week-- {
		for _, c := range courses {
			trend := float64(11-week) * 0.6
			samples = append(samples, performance.Sample{
				ID:         id,
				CourseID:   c.ID,
				Date:       in(-7 * week),
				Grade:      base[c.ID] + trend,
				StudyHours: float64(4 + (c.ID+week)%5),
			})
			id++
		}
	}

	return courses, assignments, samples
}
