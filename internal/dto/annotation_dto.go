package dto

// AnnotationPayload is an annotation as sent by a sharing client.
type AnnotationPayload struct {
	Url     string  `json:"url" validate:"required"`
	Content string  `json:"content"`
	Time    float64 `json:"time" validate:"gte=0"`
}

type ShareAnnotationRequest struct {
	Annotation AnnotationPayload `json:"annotation" validate:"required"`
	TargetUser string            `json:"target_user" validate:"required"`
	SharedBy   string            `json:"shared_by"`
}

type ShareAnnotationResponse struct {
	Id string `json:"_id"`
}

// MatchingAnnotationResponse is the wire form consumed by the sync engine.
type MatchingAnnotationResponse struct {
	Id      string  `json:"_id"`
	Url     string  `json:"url"`
	Content string  `json:"content"`
	Time    float64 `json:"time"`
}

type DeleteAnnotationResponse struct {
	Id      string `json:"_id"`
	Deleted bool   `json:"deleted"`
}

type AnnotationStatsResponse struct {
	Pending int64 `json:"pending"`
}

// Envelope is the response shape of every REST endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}
