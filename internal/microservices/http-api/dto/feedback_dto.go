package dto

type CreateFeedbackRequest struct {
	Name         string `json:"name" binding:"max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	ErrorType    string `json:"error_type" binding:"max=50"`
	ErrorSubType string `json:"error_sub_type" binding:"max=100"`
	Content      string `json:"content" binding:"required,max=2000"`
}

type UpdateFeedbackRequest struct {
	Status    *string `json:"status,omitempty"`
	AdminNote *string `json:"admin_note,omitempty" binding:"omitempty,max=2000"`
}
