package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quizdesk/internal/app"
	"quizdesk/internal/config"
	"quizdesk/internal/domain"
)

// newRunCmd starts the interactive terminal front-end. All quiz logic lives
// in internal/app; this file only renders and forwards input.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the interactive quiz application",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			return newUI(env).run()
		},
	}
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	warn    = color.New(color.FgYellow)
)

type ui struct {
	env   *env
	lines chan string
}

func newUI(env *env) *ui {
	return &ui{env: env, lines: make(chan string)}
}

func (u *ui) run() error {
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			u.lines <- strings.TrimSpace(sc.Text())
		}
		close(u.lines)
	}()

	for {
		heading.Println("\nQuiz Application")
		fmt.Println("  1) Login")
		fmt.Println("  2) Register")
		fmt.Println("  q) Quit")
		switch u.prompt("> ") {
		case "1":
			u.login()
		case "2":
			u.register()
		case "q", "":
			return nil
		}
	}
}

// prompt reads one line; an exhausted stdin behaves like quitting.
func (u *ui) prompt(label string) string {
	fmt.Print(label)
	line, ok := <-u.lines
	if !ok {
		return ""
	}
	return line
}

func (u *ui) register() {
	username := u.prompt("Username: ")
	password := u.prompt("Password: ")
	role := u.prompt("Role (student/teacher): ")

	_, err := u.env.auth.Register(username, password, role)
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		bad.Println("That username is already taken.")
	case errors.Is(err, domain.ErrValidation):
		bad.Printf("Invalid input: %v\n", err)
	case err != nil:
		bad.Println("Registration failed, please try again.")
	default:
		good.Println("Registered. You can log in now.")
	}
}

func (u *ui) login() {
	username := u.prompt("Username: ")
	password := u.prompt("Password: ")

	sess, err := u.env.auth.Login(username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			bad.Println("Invalid username or password.")
		} else {
			bad.Println("Login failed, please try again.")
		}
		return
	}
	if sess.Role == domain.RoleTeacher {
		u.teacherDashboard(sess)
	} else {
		u.studentDashboard(sess)
	}
}

func (u *ui) studentDashboard(sess domain.UserSession) {
	for {
		heading.Printf("\nStudent Dashboard — %s\n", sess.Name)
		fmt.Println("  1) Available quizzes")
		fmt.Println("  2) Take a quiz")
		fmt.Println("  3) Leaderboard")
		fmt.Println("  b) Logout")
		switch u.prompt("> ") {
		case "1":
			u.listQuizzes()
		case "2":
			u.takeQuiz(sess)
		case "3":
			u.showLeaderboard()
		case "b", "":
			return
		}
	}
}

func (u *ui) teacherDashboard(sess domain.UserSession) {
	for {
		heading.Printf("\nTeacher Dashboard — %s\n", sess.Name)
		fmt.Println("  1) Quizzes")
		fmt.Println("  2) Create quiz")
		fmt.Println("  3) Delete quiz")
		fmt.Println("  4) Students")
		fmt.Println("  5) Leaderboard")
		fmt.Println("  b) Logout")
		switch u.prompt("> ") {
		case "1":
			u.listQuizzes()
		case "2":
			u.authorQuiz()
		case "3":
			u.deleteQuiz()
		case "4":
			u.listStudents()
		case "5":
			u.showLeaderboard()
		case "b", "":
			return
		}
	}
}

func (u *ui) listQuizzes() {
	quizzes, err := u.env.catalog.ListQuizzes()
	if err != nil {
		bad.Println("Could not load quizzes.")
		return
	}
	if len(quizzes) == 0 {
		warn.Println("No quizzes available.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBJECT\tTITLE\tDESCRIPTION")
	for _, q := range quizzes {
		subject, name := q.Subject()
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", q.ID, subject, name, q.Description)
	}
	w.Flush()
}

func (u *ui) listStudents() {
	students, err := u.env.auth.ListStudents()
	if err != nil {
		bad.Println("Could not load students.")
		return
	}
	if len(students) == 0 {
		warn.Println("No students registered yet.")
		return
	}
	for i, s := range students {
		fmt.Printf("  %d) %s\n", i+1, s.Username)
	}
}

func (u *ui) showLeaderboard() {
	rows, err := u.env.boards.FullLeaderboard()
	if err != nil {
		bad.Println("Could not load the leaderboard.")
		return
	}
	limit := config.LimitOr(u.env.cfg.Leaderboard.Limit, 20)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTUDENT\tQUIZ\tSCORE (%)")
	for i, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, row.StudentName, row.QuizTitle, row.Score)
	}
	w.Flush()
}

func (u *ui) authorQuiz() {
	category := u.prompt("Category: ")
	title := u.prompt("Title: ")
	description := u.prompt("Description: ")

	draft := app.QuizDraft{
		Title:       fmt.Sprintf("%s: %s", category, title),
		Description: description,
	}
	for {
		fmt.Printf("Question %d (empty to finish): ", len(draft.Questions)+1)
		text, ok := <-u.lines
		if !ok || strings.TrimSpace(text) == "" {
			break
		}
		q := app.QuestionDraft{Text: strings.TrimSpace(text)}
		for i := range q.Options {
			q.Options[i] = u.prompt(fmt.Sprintf("  Option %d: ", i+1))
		}
		n, err := strconv.Atoi(u.prompt("  Correct option (1-4): "))
		if err != nil || n < 1 || n > 4 {
			bad.Println("  Correct option must be 1-4; question discarded.")
			continue
		}
		q.CorrectIndex = n - 1
		draft.Questions = append(draft.Questions, q)
	}

	if _, err := u.env.catalog.SaveQuiz(draft); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			bad.Printf("Quiz not saved: %v\n", err)
		} else {
			bad.Println("Failed to save the quiz.")
		}
		return
	}
	good.Println("Quiz saved successfully.")
}

func (u *ui) deleteQuiz() {
	id, err := strconv.ParseInt(u.prompt("Quiz id to delete: "), 10, 64)
	if err != nil {
		bad.Println("Not a quiz id.")
		return
	}
	if u.prompt("Delete quiz and all of its questions? (y/N): ") != "y" {
		return
	}
	found, err := u.env.catalog.DeleteQuiz(id)
	if err != nil {
		bad.Println("Failed to delete the quiz.")
		return
	}
	if !found {
		warn.Println("No quiz with that id.")
		return
	}
	good.Println("Quiz deleted.")
}

func (u *ui) takeQuiz(sess domain.UserSession) {
	u.listQuizzes()
	id, err := strconv.ParseInt(u.prompt("Quiz id to start: "), 10, 64)
	if err != nil {
		bad.Println("Not a quiz id.")
		return
	}
	questions, err := u.env.catalog.Questions(id)
	if err != nil {
		bad.Println("Could not load the quiz.")
		return
	}

	questionTime := config.Duration(u.env.cfg.Session.QuestionTime, app.DefaultQuestionTime)
	attempt, err := app.NewAttempt(sess, id, questions, u.env.store, u.env.log,
		app.WithQuestionTime(questionTime))
	if err != nil {
		if errors.Is(err, domain.ErrNoQuestions) {
			bad.Println("No questions found for this quiz!")
		} else {
			bad.Println("Could not start the quiz.")
		}
		return
	}
	u.runAttempt(attempt)
}

// runAttempt drives the session state machine: input lines and countdown
// ticks arrive on channels and are dispatched one at a time, so attempt
// state is only ever touched from this loop.
func (u *ui) runAttempt(attempt *app.Attempt) {
	countdown := app.NewCountdown(time.Second)
	defer countdown.Stop()

	for !attempt.Finished() {
		view, err := attempt.Current()
		if err != nil {
			break
		}
		heading.Printf("\nQuestion %d/%d\n", view.Position, view.Total)
		fmt.Println(view.Text)
		for i, opt := range view.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
		if view.Inert {
			warn.Println("Already answered — options are disabled.")
		}
		fmt.Println("Answer 1-4, n=next, p=previous, q=quit")
		countdown.Start(attempt.Generation(), view.Seconds)

		if !u.presentQuestion(attempt, countdown) {
			return
		}
	}

	if res, err := attempt.Result(); err == nil {
		heading.Println("\nQuiz Completed!")
		fmt.Printf("%s — score %d/%d (%d%%), %d seconds\n",
			res.StudentName, res.Score, res.Total, res.Percentage, res.TimeTaken)
	}
}

// presentQuestion handles events for one question. Returns false when the
// student quit the attempt.
func (u *ui) presentQuestion(attempt *app.Attempt, countdown *app.Countdown) bool {
	for {
		select {
		case line, ok := <-u.lines:
			if !ok {
				attempt.Close()
				return false
			}
			switch line {
			case "q":
				attempt.Close()
				countdown.Cancel()
				warn.Println("Quiz abandoned; no score recorded.")
				return false
			case "p":
				if err := attempt.Previous(); err != nil {
					warn.Println("Already at the first question.")
					continue
				}
				return true
			case "n", "":
				if err := attempt.Next(); err != nil {
					bad.Println("Your score could not be saved.")
				}
				return true
			default:
				k, err := strconv.Atoi(line)
				if err != nil {
					continue
				}
				outcome, err := attempt.Answer(k)
				switch {
				case errors.Is(err, domain.ErrAlreadyAnswered):
					warn.Println("This question was already answered.")
					continue
				case errors.Is(err, domain.ErrValidation):
					continue
				case err != nil:
					bad.Println("Your score could not be saved.")
					return true
				}
				if outcome.Correct {
					good.Println("Correct!")
				} else {
					bad.Printf("Incorrect — the answer was option %d.\n", outcome.CorrectOption)
				}
				return true
			}
		case ev := <-countdown.Events():
			if ev.Generation != attempt.Generation() {
				continue // stale tick from a question already left
			}
			if ev.Expired {
				warn.Println("Time is up!")
				if _, err := attempt.ExpireIfCurrent(ev.Generation); err != nil {
					bad.Println("Your score could not be saved.")
				}
				return true
			}
			if ev.Remaining <= 5 || ev.Remaining%10 == 0 {
				fmt.Printf("  %d seconds left\n", ev.Remaining)
			}
		}
	}
}
