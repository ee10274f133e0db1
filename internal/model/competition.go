package model

// CompetitionData is the state of the competition for the current tenure.
type CompetitionData struct {
	TenureHeight    uint64          `json:"tenure_height"`
	SecondBestCount uint64          `json:"second_best_count"`
	SecondBestPrize *MonsterDetails `json:"second_best_prize,omitempty"`
}

// ParticipantTenure is the tenure recorded for a competition participant id.
type ParticipantTenure struct {
	ParticipantID uint64 `json:"participant_id"`
	Tenure        uint64 `json:"tenure"`
}
