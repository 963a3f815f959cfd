// internal/domain/inquiry/dto.go
package inquiry

type CreateInquiryRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
	Name        string `json:"name" binding:"max=255"`
	ReferralNr  string `json:"referral_nr" binding:"required,max=64"`
}

// UpdateInquiryRequest is the shape the dial provider posts back once a
// conversation ends. InquiryID is only honored on the webhook route where
// the id is not part of the path.
type UpdateInquiryRequest struct {
	InquiryID              int64                  `json:"inquiry_id"`
	Variables              map[string]interface{} `json:"variables"`
	Transcripts            map[string]interface{} `json:"transcripts"`
	ConcatenatedTranscript string                 `json:"concatenated_transcript"`
}
