package entities

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type IndexRecord struct {
	DocumentID    string          `db:"document_id"`
	FileName      string          `db:"file_name"`
	DocumentType  string          `db:"document_type"`
	Department    string          `db:"department"`
	OwnerID       string          `db:"owner_id"`
	OwnerLogin    string          `db:"owner_login"`
	Description   string          `db:"description"`
	Tags          pq.StringArray  `db:"tags"`
	ExtractedText sql.NullString  `db:"extracted_text"`
	OCRConfidence sql.NullFloat64 `db:"ocr_confidence"`
	Metadata      []byte          `db:"metadata"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	IndexedAt     time.Time       `db:"indexed_at"`
}

type SmartFolder struct {
	ID         string    `db:"id"`
	OwnerID    string    `db:"owner_id"`
	OwnerLogin string    `db:"owner_login"`
	OwnerDept  string    `db:"owner_department"`
	Name       string    `db:"name"`
	Definition string    `db:"definition"`
	Scope      string    `db:"scope"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type User struct {
	ID         string    `db:"id"`
	Login      string    `db:"login"`
	PassHash   []byte    `db:"pass_hash"`
	Department string    `db:"department"`
	IsAdmin    bool      `db:"is_admin"`
	CreatedAt  time.Time `db:"created_at"`
}
