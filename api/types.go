package api

import (
	"encoding/json"

	"github.com/jrsteele09/securecrop-client/sessions"
)

// User is the account object returned by login, register and /auth/me/.
type User = sessions.UserSummary

// AuthTokens is the token pair issued at login.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	User    User       `json:"user"`
	Tokens  AuthTokens `json:"tokens"`
	Message string     `json:"message,omitempty"`
}

type RegisterData struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// SoilInputData is the soil reading submitted for a crop recommendation.
type SoilInputData struct {
	NLevel      float64 `json:"N_level"`
	PLevel      float64 `json:"P_level"`
	KLevel      float64 `json:"K_level"`
	PH          float64 `json:"ph"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
}

type SoilInput struct {
	ID           int     `json:"id"`
	User         int     `json:"user"`
	UserEmail    string  `json:"user_email,omitempty"`
	UserUsername string  `json:"user_username,omitempty"`
	NLevel       float64 `json:"N_level"`
	PLevel       float64 `json:"P_level"`
	KLevel       float64 `json:"K_level"`
	PH           float64 `json:"ph"`
	Moisture     float64 `json:"moisture"`
	Temperature  float64 `json:"temperature"`
	// IntegrityHash is the backend's tamper-evidence hash of the reading.
	IntegrityHash *string `json:"integrity_hash"`
	CreatedAt     string  `json:"created_at"`
}

// Data returns the measured values of the reading.
func (s SoilInput) Data() SoilInputData {
	return SoilInputData{
		NLevel:      s.NLevel,
		PLevel:      s.PLevel,
		KLevel:      s.KLevel,
		PH:          s.PH,
		Moisture:    s.Moisture,
		Temperature: s.Temperature,
	}
}

type Recommendation struct {
	ID          int        `json:"id"`
	CropName    string     `json:"crop_name"`
	Explanation string     `json:"explanation"`
	CreatedAt   string     `json:"created_at"`
	SoilInput   *SoilInput `json:"soil_input,omitempty"`
}

type FarmingProblem struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

// FarmingGuide is generated by the backend, either by its LLM ("gemini_ai")
// or from static text ("fallback").
type FarmingGuide struct {
	Source            string           `json:"source"`
	CropName          string           `json:"crop_name"`
	WhyRecommended    string           `json:"why_recommended"`
	CultivationSteps  []string         `json:"cultivation_steps"`
	WateringGuide     string           `json:"watering_guide"`
	FertilizationTips string           `json:"fertilization_tips"`
	HarvestingTips    string           `json:"harvesting_tips"`
	CommonProblems    []FarmingProblem `json:"common_problems"`
	ExpectedYield     string           `json:"expected_yield"`
	GrowthDuration    string           `json:"growth_duration"`
}

type SecurityCheck struct {
	AnomalyDetected bool   `json:"anomaly_detected"`
	IntegrityStatus string `json:"integrity_status"`
}

type SoilInputResponse struct {
	SoilInput      SoilInput      `json:"soil_input"`
	Recommendation Recommendation `json:"recommendation"`
	FarmingGuide   *FarmingGuide  `json:"farming_guide,omitempty"`
	SecurityCheck  SecurityCheck  `json:"security_check"`
	Message        string         `json:"message"`
}

type FeedbackData struct {
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

// FeedbackEntry is one user rating with comments.
type FeedbackEntry struct {
	ID           int    `json:"id"`
	User         int    `json:"user"`
	UserUsername string `json:"user_username"`
	UserEmail    string `json:"user_email"`
	Rating       int    `json:"rating"`
	Comments     string `json:"comments"`
	CreatedAt    string `json:"created_at"`
}

type FeedbackCreated struct {
	Feedback FeedbackEntry `json:"feedback"`
	Message  string        `json:"message"`
}

type FeedbackStats struct {
	TotalFeedbacks int     `json:"total_feedbacks"`
	AverageRating  float64 `json:"average_rating"`
}

type CyberLog struct {
	ID              int     `json:"id"`
	Input           *int    `json:"input"`
	InputID         *int    `json:"input_id"`
	UserUsername    *string `json:"user_username"`
	AnomalyDetected bool    `json:"anomaly_detected"`
	IntegrityStatus string  `json:"integrity_status"`
	Details         string  `json:"details"`
	Timestamp       string  `json:"timestamp"`
}

type CyberLogFilter struct {
	AnomalyDetected *bool
	IntegrityStatus string
}

type StatusCount struct {
	IntegrityStatus string `json:"integrity_status"`
	Count           int    `json:"count"`
}

type CyberLogStats struct {
	TotalLogs         int           `json:"total_logs"`
	AnomaliesDetected int           `json:"anomalies_detected"`
	AnomalyRate       float64       `json:"anomaly_rate"`
	StatusBreakdown   []StatusCount `json:"status_breakdown"`
}

type AdminLog struct {
	ID            int    `json:"id"`
	Admin         int    `json:"admin"`
	AdminUsername string `json:"admin_username"`
	AdminEmail    string `json:"admin_email"`
	Action        string `json:"action"`
	Timestamp     string `json:"timestamp"`
}

type InquiryStatus string

const (
	InquiryPending    InquiryStatus = "pending"
	InquiryInProgress InquiryStatus = "in_progress"
	InquiryResolved   InquiryStatus = "resolved"
	InquiryClosed     InquiryStatus = "closed"
)

// ValidInquiryStatus reports whether s is one of the backend's statuses.
func ValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryPending, InquiryInProgress, InquiryResolved, InquiryClosed:
		return true
	}
	return false
}

// ContactInquiryData is the public contact form.
type ContactInquiryData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

type ContactInquiry struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone,omitempty"`
	Subject    string        `json:"subject"`
	Message    string        `json:"message"`
	Category   string        `json:"category"`
	Status     InquiryStatus `json:"status"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at,omitempty"`
	AdminReply *string       `json:"admin_reply,omitempty"`
	RepliedAt  *string       `json:"replied_at,omitempty"`
}

type ContactFilter struct {
	Status   InquiryStatus
	Category string
}

// Coordinates is an optional position. The weather and market endpoints fall
// back to the user's saved location when it is omitted.
type Coordinates struct {
	Lat float64
	Lon float64
}

type Location struct {
	City      string  `json:"city"`
	State     string  `json:"state,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlaceType string

const (
	PlaceMarket    PlaceType = "market"
	PlaceBuyer     PlaceType = "buyer"
	PlaceAgriStore PlaceType = "agri_store"
)

// Place is a market, buyer or agricultural store near a position.
type Place struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Type         PlaceType `json:"type"`
	DistanceKM   float64   `json:"distance_km"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	Website      string    `json:"website,omitempty"`
}

// Payload is a backend response passed through without interpretation.
type Payload = json.RawMessage
