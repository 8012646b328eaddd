package domain

import "testing"

func TestQuizSubject(t *testing.T) {
	cases := []struct {
		title, subject, name string
	}{
		{"Math: Fractions", "Math", "Fractions"},
		{"History:Rome: Republic", "History", "Rome: Republic"},
		{"Untitled", "General", "Untitled"},
	}
	for _, c := range cases {
		subject, name := Quiz{Title: c.title}.Subject()
		if subject != c.subject || name != c.name {
			t.Fatalf("%q split into (%q, %q), want (%q, %q)", c.title, subject, name, c.subject, c.name)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("alice", 3); got != "alice" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName("", 3); got != "Student_3" {
		t.Fatalf("empty name: got %q", got)
	}
	if got := DisplayName("Student_9", 3); got != "Student_3" {
		t.Fatalf("placeholder name: got %q", got)
	}
	if got := DisplayName("   ", 3); got != "Student_3" {
		t.Fatalf("blank name: got %q", got)
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleStudent) || !ValidRole(RoleTeacher) {
		t.Fatalf("known roles must validate")
	}
	if ValidRole("admin") {
		t.Fatalf("unknown role must not validate")
	}
}
