package flow

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"claimos/internal/domain"
	"claimos/internal/port"
	"claimos/internal/requirements"
	"claimos/internal/rules"
)

// followUpPrefix marks adaptive follow-up questions generated from the
// coverage requirements table rather than the authored question catalog.
const followUpPrefix = "field:"

// QuestioningHandler runs the priority-ordered answer collection loop: it
// records the inbound answer, re-evaluates rules, and either asks the next
// question or moves the flow forward.
type QuestioningHandler struct {
	states   *StateManager
	coverage port.CoverageRepository
	answers  port.AnswerRepository
	engine   *rules.Engine
	registry requirements.Registry
}

func NewQuestioningHandler(states *StateManager, coverage port.CoverageRepository, answers port.AnswerRepository, engine *rules.Engine, registry requirements.Registry) *QuestioningHandler {
	return &QuestioningHandler{states: states, coverage: coverage, answers: answers, engine: engine, registry: registry}
}

func (h *QuestioningHandler) Stage() domain.Stage { return domain.StageQuestioning }

func (h *QuestioningHandler) Run(ctx context.Context, state *domain.FlowState, input Input, emit Emit) error {
	questions, err := h.coverage.ListQuestions(ctx, state.CoverageTypeIDs)
	if err != nil {
		log.Printf("flow.Questioning: listing questions for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong on our side. Please send that again in a moment.")
		return nil
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Priority < questions[j].Priority })

	if msg := strings.TrimSpace(input.Message); msg != "" {
		recordTurn(state, "user", msg)
		h.absorbAnswer(ctx, state, questions, msg)
	}

	out := h.engine.Evaluate(rules.Input{
		CoverageTypeIDs: state.CoverageTypeIDs,
		Answers:         answerValues(state),
	})

	if out.EligibilityStatus == domain.EligibilityStatusIneligible {
		msg := "Based on your answers, this claim is not eligible under your policy"
		if len(out.Reasons) > 0 {
			msg += ": " + strings.Join(out.Reasons, "; ")
		}
		msg += ". You can revise an answer if something was recorded incorrectly."
		recordTurn(state, "assistant", msg)
		if err := h.states.Save(ctx, state); err != nil {
			log.Printf("flow.Questioning: saving state for session %s: %v", state.SessionID, err)
		}
		emit(msg)
		return nil
	}

	hidden := make(map[string]struct{}, len(out.HiddenQuestionIDs))
	for _, id := range out.HiddenQuestionIDs {
		hidden[id] = struct{}{}
	}

	if next := h.nextQuestion(state, questions, hidden); next != nil {
		return h.ask(ctx, state, next.ID, next.Prompt, emit)
	}

	missing, err := h.registry.MissingRequired(ctx, state.CoverageTypeIDs, state.ExtractedData)
	if err != nil {
		log.Printf("flow.Questioning: resolving required fields for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong on our side. Please send that again in a moment.")
		return nil
	}
	if len(missing) > 0 {
		f := missing[0]
		return h.ask(ctx, state, followUpPrefix+f.Name, followUpPrompt(f), emit)
	}

	if err := h.states.Save(ctx, state); err != nil {
		log.Printf("flow.Questioning: saving state for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong saving your answers. Please send that again.")
		return nil
	}

	if len(out.RequiredDocuments) > 0 {
		if err := h.states.Transition(ctx, state, domain.StageDocuments); err != nil {
			return err
		}
		emit("Great, I have all the details I need. Next, let's collect your supporting documents.")
		return nil
	}
	if err := h.states.Transition(ctx, state, domain.StageValidation); err != nil {
		return err
	}
	emit("Great, I have all the details I need. Let me check everything over.")
	return nil
}

// absorbAnswer treats the inbound message as the answer to the most
// recently asked, still-unanswered question.
func (h *QuestioningHandler) absorbAnswer(ctx context.Context, state *domain.FlowState, questions []domain.Question, msg string) {
	pendingID, field := h.pendingQuestion(state, questions)
	if pendingID == "" {
		return
	}

	state.SetField(field, msg, "answer", 1.0)
	answer := &domain.Answer{
		ID:         uuid.New(),
		SessionID:  state.SessionID,
		QuestionID: pendingID,
		Value:      msg,
		CreatedAt:  nowUTC(),
	}
	if err := h.answers.Create(ctx, answer); err != nil {
		// The value survives in extracted data; the answer row is an audit
		// record.
		log.Printf("flow.Questioning: saving answer for session %s question %s: %v", state.SessionID, pendingID, err)
	}
}

// pendingQuestion returns the last asked question that has no extracted
// value yet, with the field name it populates.
func (h *QuestioningHandler) pendingQuestion(state *domain.FlowState, questions []domain.Question) (id, field string) {
	if len(state.AskedQuestionIDs) == 0 {
		return "", ""
	}
	last := state.AskedQuestionIDs[len(state.AskedQuestionIDs)-1]
	field = strings.TrimPrefix(last, followUpPrefix)
	if last == field {
		field = ""
		for _, q := range questions {
			if q.ID == last {
				field = q.FieldName
				break
			}
		}
		if field == "" {
			return "", ""
		}
	}
	if _, answered := state.Field(field); answered {
		return "", ""
	}
	return last, field
}

func (h *QuestioningHandler) nextQuestion(state *domain.FlowState, questions []domain.Question, hidden map[string]struct{}) *domain.Question {
	for i := range questions {
		q := &questions[i]
		if _, isHidden := hidden[q.ID]; isHidden {
			continue
		}
		if _, answered := state.Field(q.FieldName); answered {
			continue
		}
		return q
	}
	return nil
}

func (h *QuestioningHandler) ask(ctx context.Context, state *domain.FlowState, questionID, prompt string, emit Emit) error {
	if !state.AskedQuestionIDs.Contains(questionID) {
		state.AskedQuestionIDs = append(state.AskedQuestionIDs, questionID)
	}
	recordTurn(state, "assistant", prompt)
	if err := h.states.Save(ctx, state); err != nil {
		log.Printf("flow.Questioning: saving state for session %s: %v", state.SessionID, err)
		emit("Sorry, something went wrong on our side. Please send that again in a moment.")
		return nil
	}
	emit(prompt)
	return nil
}

// followUpPrompt phrases an adaptive question for a missing required field.
func followUpPrompt(f requirements.FieldSpec) string {
	prompt := fmt.Sprintf("Could you tell me the %s?", strings.ToLower(f.Label))
	if f.ExtractionHint != "" {
		prompt += fmt.Sprintf(" (%s)", f.ExtractionHint)
	}
	return prompt
}

// answerValues flattens extracted data into the field → value map the rules
// engine consumes.
func answerValues(state *domain.FlowState) map[string]string {
	out := make(map[string]string, len(state.ExtractedData))
	for name, f := range state.ExtractedData {
		out[name] = f.Value
	}
	return out
}
