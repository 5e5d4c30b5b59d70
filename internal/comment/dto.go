// AngelaMos | 2026
// dto.go

package comment

import "strings"

type CreateCommentRequest struct {
	UserID   string `json:"userId"   validate:"required,max=128"`
	UserName string `json:"userName" validate:"required,max=100"`
	Comment  string `json:"comment"  validate:"required,max=2000"`
}

func (r *CreateCommentRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.UserName = strings.TrimSpace(r.UserName)
	r.Comment = strings.TrimSpace(r.Comment)
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
