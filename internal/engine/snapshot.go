package engine

import (
	"github.com/surveyhub/survey-service/internal/models"
)

// Snapshot is the serializable state of a Session, held by a session store
// between requests. The survey itself is not part of the snapshot; Restore
// rehydrates against a freshly loaded survey.
type Snapshot struct {
	SurveyID uint              `json:"survey_id"`
	Position int               `json:"position"`
	Answers  []FinalizedAnswer `json:"answers"`
	Pending  []uint            `json:"pending,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SurveyID: s.survey.ID,
		Position: s.position,
		Answers:  s.Answers(),
		Pending:  s.PendingSelection(),
	}
}

// Restore rebuilds a session from a snapshot taken earlier against the same
// survey. The invariant position == len(answers) holds for every state a
// Session can reach, so a snapshot violating it is corrupt.
func Restore(survey *models.Survey, snap Snapshot) (*Session, error) {
	session, err := NewSession(survey)
	if err != nil {
		return nil, err
	}
	if snap.SurveyID != survey.ID {
		return nil, ErrSurveyMismatch
	}
	if snap.Position < 0 || snap.Position > len(session.questions) {
		return nil, ErrCorruptSnapshot
	}
	if len(snap.Answers) != snap.Position {
		return nil, ErrCorruptSnapshot
	}
	seen := make(map[uint]bool, len(snap.Answers))
	for i, ans := range snap.Answers {
		if ans.QuestionID != session.questions[i].ID || seen[ans.QuestionID] {
			return nil, ErrCorruptSnapshot
		}
		seen[ans.QuestionID] = true
	}

	session.position = snap.Position
	session.answers = append(session.answers, snap.Answers...)
	if len(snap.Pending) > 0 {
		session.pending = append(session.pending, snap.Pending...)
	}
	return session, nil
}
