package httpapi

import (
	"time"

	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/domain"
)

type utteranceRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type factResponse struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

type sessionResponse struct {
	ID               string            `json:"id"`
	Day              int               `json:"day"`
	Turn             int               `json:"turn"`
	Phase            string            `json:"phase"`
	Consolidating    bool              `json:"consolidating"`
	Gold             int64             `json:"gold"`
	GoldToday        int64             `json:"gold_today"`
	GoldBand         string            `json:"gold_band"`
	Relationship     *int              `json:"relationship,omitempty"`
	RelationshipBand string            `json:"relationship_band,omitempty"`
	Mood             string            `json:"mood,omitempty"`
	Conversation     []messageResponse `json:"conversation"`
	Memories         []string          `json:"memories"`
	Facts            []factResponse    `json:"facts"`
	Endings          []string          `json:"endings,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type replyResponse struct {
	Structured        bool   `json:"structured"`
	GoldDelta         int64  `json:"gold_delta"`
	RelationshipDelta int    `json:"relationship_delta"`
	Message           string `json:"message"`
}

type turnResponse struct {
	Ignored bool            `json:"ignored"`
	DayOver bool            `json:"day_over"`
	Reply   *replyResponse  `json:"reply,omitempty"`
	Session sessionResponse `json:"session"`
}

func newSessionResponse(view application.SessionView) sessionResponse {
	resp := sessionResponse{
		ID:            string(view.ID),
		Day:           view.Day,
		Turn:          view.Turn,
		Phase:         string(view.Phase),
		Consolidating: view.Consolidating,
		Gold:          view.Gold,
		GoldToday:     view.GoldToday,
		GoldBand:      string(view.GoldBand),
		Conversation:  make([]messageResponse, 0, len(view.Conversation)),
		Memories:      append([]string{}, view.MemoryDigests...),
		Facts:         make([]factResponse, 0, len(view.Facts)),
		UpdatedAt:     view.UpdatedAt,
	}

	if view.TrackRelationship {
		relationship := view.Relationship
		resp.Relationship = &relationship
		resp.RelationshipBand = string(view.RelationshipBand)
		resp.Mood = view.Mood
	}
	for _, message := range view.Conversation {
		resp.Conversation = append(resp.Conversation, messageResponse{Speaker: string(message.Speaker), Text: message.Text})
	}
	for _, key := range view.Facts.Keys() {
		resp.Facts = append(resp.Facts, factResponse{Key: key, Values: view.Facts[key].Values()})
	}
	if view.Phase == domain.PhaseGameOver {
		resp.Endings = append(resp.Endings, view.GoldEnding)
		if view.TrackRelationship {
			resp.Endings = append(resp.Endings, view.RelationshipEnding)
		}
	}

	return resp
}

func newTurnResponse(outcome application.TurnOutcome, view application.SessionView) turnResponse {
	resp := turnResponse{
		Ignored: outcome.Ignored,
		DayOver: outcome.DayOver,
		Session: newSessionResponse(view),
	}
	if !outcome.Ignored {
		resp.Reply = &replyResponse{
			Structured:        outcome.Reply.Kind == application.ReplyStructured,
			GoldDelta:         outcome.Reply.GoldDelta,
			RelationshipDelta: outcome.Reply.RelationshipDelta,
			Message:           outcome.Reply.Message,
		}
	}

	return resp
}
