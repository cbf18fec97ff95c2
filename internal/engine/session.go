package engine

import (
	"sort"

	"github.com/surveyhub/survey-service/internal/models"
)

// Session is the ephemeral traversal state of one respondent answering one
// survey. It is owned by a single caller and is not safe for concurrent
// use; persistence across requests is the session store's concern.
//
// The survey snapshot is taken at construction. position ranges over
// [0, len(questions)]; position == len(questions) means the traversal is
// complete and the session is ready for commit.
type Session struct {
	survey    *models.Survey
	questions []models.Question
	position  int
	answers   []FinalizedAnswer
	pending   []uint
}

// NewSession starts a traversal over the survey's questions. Questions are
// ordered by (order, id) ascending; options by (order, id) ascending. A
// survey with zero questions yields a session that is already complete.
func NewSession(survey *models.Survey) (*Session, error) {
	if survey == nil {
		return nil, ErrNilSurvey
	}

	questions := make([]models.Question, len(survey.Questions))
	copy(questions, survey.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].ID < questions[j].ID
	})
	for qi := range questions {
		opts := questions[qi].Options
		sort.SliceStable(opts, func(i, j int) bool {
			if opts[i].Order != opts[j].Order {
				return opts[i].Order < opts[j].Order
			}
			return opts[i].ID < opts[j].ID
		})
	}

	return &Session{
		survey:    survey,
		questions: questions,
		answers:   make([]FinalizedAnswer, 0, len(questions)),
	}, nil
}

func (s *Session) SurveyID() uint {
	return s.survey.ID
}

func (s *Session) QuestionCount() int {
	return len(s.questions)
}

// Position is the zero-based index of the question currently presented.
func (s *Session) Position() int {
	return s.position
}

// IsComplete reports whether the traversal has passed the last question.
func (s *Session) IsComplete() bool {
	return s.position >= len(s.questions)
}

// Current returns the question eligible for answer submission, or false
// when the session is complete.
func (s *Session) Current() (*models.Question, bool) {
	if s.IsComplete() {
		return nil, false
	}
	return &s.questions[s.position], true
}

// Answers returns the finalized answers collected so far, in traversal
// order, one per visited question.
func (s *Session) Answers() []FinalizedAnswer {
	out := make([]FinalizedAnswer, len(s.answers))
	copy(out, s.answers)
	return out
}

// PendingSelection returns the option ids toggled so far for the current
// MultipleChoice question, in toggle order.
func (s *Session) PendingSelection() []uint {
	out := make([]uint, len(s.pending))
	copy(out, s.pending)
	return out
}

// advance records a finalized answer for the current question and moves to
// the next one, clearing the pending selection.
func (s *Session) advance(answer FinalizedAnswer) error {
	for i := range s.answers {
		if s.answers[i].QuestionID == answer.QuestionID {
			return ErrDuplicateAnswer
		}
	}
	s.answers = append(s.answers, answer)
	s.pending = nil
	s.position++
	return nil
}

// Back returns to the previous question, discarding its recorded answer so
// it can be answered again. Forward-only front ends simply never call it.
func (s *Session) Back() (*models.Question, error) {
	if s.position == 0 {
		return nil, ErrAtFirstQuestion
	}
	s.position--
	s.pending = nil
	q := &s.questions[s.position]
	for i := range s.answers {
		if s.answers[i].QuestionID == q.ID {
			s.answers = append(s.answers[:i], s.answers[i+1:]...)
			break
		}
	}
	return q, nil
}
