package dto

type CreateNoteRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags" binding:"omitempty,dive,notetag"`
}

type UpdateNoteRequest struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags" binding:"omitempty,dive,notetag"`
}

type SummarizeRequest struct {
	Content string `json:"content"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}
