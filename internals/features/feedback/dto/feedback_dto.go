package dto

import (
	"strings"
	"time"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/model"
)

type FeedbackRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Telephone string `json:"telephone" validate:"omitempty,e164"`
	Message   string `json:"message" validate:"required,min=10,max=2000"`
}

func (r *FeedbackRequest) ToModel() *model.CommunityFeedbackModel {
	m := &model.CommunityFeedbackModel{
		FeedbackName:    strings.TrimSpace(r.Name),
		FeedbackEmail:   strings.ToLower(strings.TrimSpace(r.Email)),
		FeedbackMessage: strings.TrimSpace(r.Message),
	}
	if tel := strings.TrimSpace(r.Telephone); tel != "" {
		m.FeedbackTelephone = &tel
	}
	return m
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Telephone *string   `json:"telephone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToFeedbackResponse(m *model.CommunityFeedbackModel) FeedbackResponse {
	return FeedbackResponse{
		ID:        m.FeedbackID.String(),
		Name:      m.FeedbackName,
		Email:     m.FeedbackEmail,
		Telephone: m.FeedbackTelephone,
		Message:   m.FeedbackMessage,
		CreatedAt: m.FeedbackCreatedAt,
	}
}

func ToFeedbackResponses(ms []model.CommunityFeedbackModel) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToFeedbackResponse(&ms[i]))
	}
	return out
}
