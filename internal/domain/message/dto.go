package message

type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Company string `json:"company" validate:"omitempty,max=255"`
	Subject string `json:"subject" validate:"omitempty,max=255"`
	Body    string `json:"body" validate:"required,max=10000"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=new read replied archived"`
}

type ListResponse struct {
	Items []Message `json:"items"`
	Total int64     `json:"total"`
}
