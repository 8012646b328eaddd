package domain

import (
	"fmt"
	"strings"
)

// Roles a user account can hold.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// User is a stored account row. PasswordDigest is a deterministic one-way
// digest, never the cleartext password.
type User struct {
	ID             int64
	Username       string
	PasswordDigest string
	Role           string
}

// UserSession is what a successful login hands to the presentation layer.
type UserSession struct {
	UserID int64
	Name   string
	Role   string
}

// Quiz is a stored quiz row. Title conventionally encodes a subject prefix
// before the first ':' ("Math: Fractions").
type Quiz struct {
	ID          int64
	Title       string
	Description string
}

// Subject splits the "Subject: Name" title convention, falling back to
// "General" when the title carries no prefix.
func (q Quiz) Subject() (subject, name string) {
	if before, after, ok := strings.Cut(q.Title, ":"); ok {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "General", q.Title
}

// Question is a stored multiple-choice question. CorrectAnswer is a
// zero-based index into Options.
type Question struct {
	ID            int64
	QuizID        int64
	Text          string
	Options       [4]string
	CorrectAnswer int
}

// LeaderboardEntry is the immutable record of one completed attempt.
// Score is an integer percentage, TimeTaken is in seconds.
type LeaderboardEntry struct {
	ID        int64
	UserID    int64
	QuizID    int64
	Score     int
	TimeTaken int
}

// LeaderboardRow is a leaderboard entry joined with user and quiz names
// for display.
type LeaderboardRow struct {
	StudentName string
	QuizTitle   string
	Score       int
	TimeTaken   int
}

// Student is the roster view of a student account.
type Student struct {
	ID       int64
	Username string
}

// DisplayName resolves the name shown for a student, falling back to a
// Student_{id} placeholder when the supplied name is empty or is itself a
// placeholder left over from an earlier fallback.
func DisplayName(name string, userID int64) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "Student_") {
		return fmt.Sprintf("Student_%d", userID)
	}
	return name
}
