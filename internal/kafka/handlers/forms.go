package handlers

import (
	"encoding/json"

	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/kafka/registry"
	"vn.io.arda/realtime/internal/messages"
)

func init() {
	Register("form-events", "FORM_SUBMITTED", handleFormSubmitted)
	Register("form-events", "FORM_APPROVED", handleFormApproved)
}

type formEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		FormID        string `json:"formId"`
		FormName      string `json:"formName"`
		SubmitterID   string `json:"submitterId"`
		SubmitterName string `json:"submitterName"`
		ApproverID    string `json:"approverId"`
	} `json:"payload"`
}

func handleFormSubmitted(data []byte) *registry.Emit {
	var env formEnv
	if err := json.Unmarshal(data, &env); err != nil || env.Payload.ApproverID == "" {
		return nil
	}
	title, body := messages.FormSubmitted(env.Payload.FormName, env.Payload.SubmitterName)
	return &registry.Emit{Notices: []domain.Notice{{
		UserID: env.Payload.ApproverID,
		Kind:   domain.KindCreated,
		Payload: map[string]any{
			"title":  title,
			"body":   body,
			"formId": env.Payload.FormID,
		},
	}}}
}

func handleFormApproved(data []byte) *registry.Emit {
	var env formEnv
	if err := json.Unmarshal(data, &env); err != nil || env.Payload.SubmitterID == "" {
		return nil
	}
	title, body := messages.FormApproved(env.Payload.FormName)
	return &registry.Emit{Notices: []domain.Notice{{
		UserID: env.Payload.SubmitterID,
		Kind:   domain.KindUpdated,
		Payload: map[string]any{
			"title":  title,
			"body":   body,
			"formId": env.Payload.FormID,
		},
	}}}
}
