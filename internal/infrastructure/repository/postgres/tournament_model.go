package postgres

import "time"

type tournamentTableModel struct {
	ID              int64      `db:"id"`
	Name            string     `db:"name"`
	Maps            string     `db:"maps"`
	Missions        string     `db:"missions"`
	TierCache       string     `db:"tier_cache"`
	Bracket         bool       `db:"bracket"`
	BracketCategory string     `db:"bracket_category"`
	OpenAt          *time.Time `db:"open_at"`
	CloseAt         *time.Time `db:"close_at"`
	ClosedAt        *time.Time `db:"closed_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type tournamentInsertModel struct {
	Name            string     `db:"name"`
	Maps            string     `db:"maps"`
	Missions        string     `db:"missions"`
	TierCache       string     `db:"tier_cache"`
	Bracket         bool       `db:"bracket"`
	BracketCategory string     `db:"bracket_category"`
	OpenAt          *time.Time `db:"open_at"`
	CloseAt         *time.Time `db:"close_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

type submissionTableModel struct {
	TournamentID int64     `db:"tournament_id"`
	Category     string    `db:"category"`
	UserID       string    `db:"user_id"`
	DisplayName  string    `db:"display_name"`
	Record       float64   `db:"record"`
	EvidenceRef  string    `db:"evidence_ref"`
	SubmittedAt  time.Time `db:"submitted_at"`
}
