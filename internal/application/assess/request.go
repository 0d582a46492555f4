package assess

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"

	"claim-assessment-engine/internal/domain/claim"
	"claim-assessment-engine/internal/domain/fraud"
)

// AssessClaimRequest is the API request structure
type AssessClaimRequest struct {
	ClaimID     string `json:"claim_id,omitempty"`
	ImageBase64 string `json:"image_base64" validate:"required"`

	ClaimInfo ClaimInfoRequest `json:"claim_info" validate:"required"`

	Damage      DamageRequest      `json:"damage_assessment" validate:"required"`
	Consistency ConsistencyRequest `json:"consistency_check" validate:"required"`
	Metadata    MetadataRequest    `json:"image_metadata"`
	Validation  ValidationRequest  `json:"metadata_validation"`
}

// ClaimInfoRequest represents submitted claim fields in the API request
type ClaimInfoRequest struct {
	Date        string `json:"date"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location"`
	PolicyID    string `json:"policy_id"`
}

// DamageRequest represents the damage-analysis signal in the API request
type DamageRequest struct {
	Score        string   `json:"score" validate:"required"`
	DamagedParts []string `json:"damaged_parts,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// ConsistencyRequest represents the consistency signal in the API request
type ConsistencyRequest struct {
	Score        string `json:"score" validate:"required"`
	IsConsistent bool   `json:"is_consistent"`
	Explanation  string `json:"explanation,omitempty"`
}

// MetadataRequest represents extracted image metadata in the API request
type MetadataRequest struct {
	HasEXIF     bool   `json:"has_exif"`
	CameraMake  string `json:"camera_make,omitempty"`
	CameraModel string `json:"camera_model,omitempty"`
	Software    string `json:"software,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// ValidationRequest represents the metadata validation signal in the
// API request
type ValidationRequest struct {
	RiskScore string   `json:"risk_score"`
	Issues    []string `json:"issues,omitempty"`
}

// ToInput converts the API request to use case input
func (r *AssessClaimRequest) ToInput() (*AssessClaimInput, error) {
	image, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("invalid image_base64: %w", err)
	}
	return r.ToInputWithImage(image)
}

// ToInputWithImage converts the request using raw image bytes supplied
// out of band, as with a multipart upload.
func (r *AssessClaimRequest) ToInputWithImage(image []byte) (*AssessClaimInput, error) {
	damageScore, err := decimal.NewFromString(r.Damage.Score)
	if err != nil {
		return nil, fmt.Errorf("invalid damage_assessment.score: %w", err)
	}

	consistencyScore, err := decimal.NewFromString(r.Consistency.Score)
	if err != nil {
		return nil, fmt.Errorf("invalid consistency_check.score: %w", err)
	}

	validationRisk := decimal.Zero
	if r.Validation.RiskScore != "" {
		validationRisk, err = decimal.NewFromString(r.Validation.RiskScore)
		if err != nil {
			return nil, fmt.Errorf("invalid metadata_validation.risk_score: %w", err)
		}
	}

	return &AssessClaimInput{
		ClaimID: r.ClaimID,
		Image:   image,
		Info: claim.Info{
			Date:        r.ClaimInfo.Date,
			Description: r.ClaimInfo.Description,
			Location:    r.ClaimInfo.Location,
			PolicyID:    r.ClaimInfo.PolicyID,
		},
		Damage: DamageSignal{
			Score:        damageScore,
			DamagedParts: r.Damage.DamagedParts,
			Description:  r.Damage.Description,
		},
		Consistency: ConsistencySignal{
			Score:        consistencyScore,
			IsConsistent: r.Consistency.IsConsistent,
			Explanation:  r.Consistency.Explanation,
		},
		Metadata: fraud.ImageMetadata{
			HasEXIF:     r.Metadata.HasEXIF,
			CameraMake:  r.Metadata.CameraMake,
			CameraModel: r.Metadata.CameraModel,
			Software:    r.Metadata.Software,
			Timestamp:   r.Metadata.Timestamp,
		},
		Validation: fraud.ValidationResult{
			RiskScore: validationRisk,
			Issues:    r.Validation.Issues,
		},
	}, nil
}
