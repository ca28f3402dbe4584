package model

import "time"

// Artist represents a registered contest participant as stored in the
// `artists` table. An artist accumulates votes through three independent
// counters that must never overlap in meaning:
//
//	OnlineVotes    – credited only by confirmed payment-gateway transactions.
//	FinancialVotes – credited only by admin-entered cash/bank adjustments.
//	HandVotes      – credited only by free, unauthenticated vote clicks.
//
// The ranking key shown on the leaderboard is OnlineVotes+FinancialVotes;
// hand votes are displayed as a separate tally and never ranked.
//
// Fields:
//
//	ID             – primary key identifier.
//	Email          – unique login email.
//	PasswordHash   – bcrypt hashed password.
//	Name           – legal name.
//	StageName      – performing name shown publicly.
//	Age            – artist age at registration.
//	CellNumber     – primary contact number.
//	WhatsappNumber – optional secondary contact (nil when absent).
//	Bio            – free-text biography.
//	ImagePublicID  – asset-host identifier of the profile picture.
//	ImageURL       – public URL of the profile picture.
//	IsApproved     – gates public visibility on voting pages.
//	CreatedAt      – timestamp of registration.
//	UpdatedAt      – timestamp of last update.
type Artist struct {
	ID             uint64    // artists.id
	Email          string    // artists.email
	PasswordHash   string    // artists.password_hash
	Name           string    // artists.name
	StageName      string    // artists.stage_name
	Age            uint32    // artists.age
	CellNumber     string    // artists.cell_number
	WhatsappNumber *string   // artists.whatsapp_number (nullable)
	Bio            string    // artists.bio
	ImagePublicID  string    // artists.image_public_id
	ImageURL       string    // artists.image_url
	OnlineVotes    int64     // artists.online_votes
	FinancialVotes int64     // artists.financial_votes
	HandVotes      int64     // artists.hand_votes
	IsApproved     bool      // artists.is_approved
	CreatedAt      time.Time // artists.created_at
	UpdatedAt      time.Time // artists.updated_at
}

// OfficialVotes returns the ranking total: online plus financial votes.
// Hand votes are deliberately excluded.
func (a Artist) OfficialVotes() int64 { return a.OnlineVotes + a.FinancialVotes }
