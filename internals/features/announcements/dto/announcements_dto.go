package dto

import (
	"time"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/announcements/model"
)

type AnnouncementRequest struct {
	Title               string     `json:"title" form:"title" validate:"required,min=3,max=50"`
	Description         string     `json:"description" form:"description" validate:"required,min=20,max=100"`
	PosterAlt           string     `json:"poster_alt" form:"poster_alt" validate:"omitempty,max=50"`
	CallToActionLink    string     `json:"call_to_action_link" form:"call_to_action_link" validate:"omitempty,url"`
	CallToActionCaption string     `json:"call_to_action_caption" form:"call_to_action_caption" validate:"omitempty,max=20"`
	ExpiresAt           *time.Time `json:"expires_at" form:"expires_at"`
}

// Validate covers the pairings the tag validator cannot express.
func (r *AnnouncementRequest) Validate(now time.Time) map[string]string {
	errs := map[string]string{}
	if (r.CallToActionLink == "") != (r.CallToActionCaption == "") {
		errs["call_to_action_caption"] = "call-to-action link and caption must be set together"
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(now) {
		errs["expires_at"] = "expiry must be in the future"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r *AnnouncementRequest) ToModel() *model.AnnouncementModel {
	return &model.AnnouncementModel{
		AnnouncementTitle:               r.Title,
		AnnouncementDescription:         r.Description,
		AnnouncementPosterAlt:           r.PosterAlt,
		AnnouncementCallToActionLink:    r.CallToActionLink,
		AnnouncementCallToActionCaption: r.CallToActionCaption,
		AnnouncementExpiresAt:           r.ExpiresAt,
	}
}

type AnnouncementResponse struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	PosterURL           string     `json:"poster_url,omitempty"`
	PosterAlt           string     `json:"poster_alt,omitempty"`
	CallToActionLink    string     `json:"call_to_action_link,omitempty"`
	CallToActionCaption string     `json:"call_to_action_caption,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func ToAnnouncementResponse(m *model.AnnouncementModel) AnnouncementResponse {
	return AnnouncementResponse{
		ID:                  m.AnnouncementID.String(),
		Title:               m.AnnouncementTitle,
		Description:         m.AnnouncementDescription,
		PosterURL:           m.AnnouncementPosterURL,
		PosterAlt:           m.AnnouncementPosterAlt,
		CallToActionLink:    m.AnnouncementCallToActionLink,
		CallToActionCaption: m.AnnouncementCallToActionCaption,
		ExpiresAt:           m.AnnouncementExpiresAt,
		CreatedAt:           m.AnnouncementCreatedAt,
		UpdatedAt:           m.AnnouncementUpdatedAt,
	}
}

func ToAnnouncementResponses(ms []model.AnnouncementModel) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToAnnouncementResponse(&ms[i]))
	}
	return out
}
