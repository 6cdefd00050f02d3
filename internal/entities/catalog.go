package entities

import (
	"time"
)

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:200;not null" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Books     []Book    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Books []Book `gorm:"many2many:book_tags;" json:"-"`
}

// Book is unique by (Title, AuthorID). PDFFile holds the storage key of the
// attached PDF, empty when nothing is attached.
type Book struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"uniqueIndex:idx_books_title_author;size:300;not null" json:"title"`
	AuthorID      uint       `gorm:"uniqueIndex:idx_books_title_author;index;not null" json:"author_id"`
	Author        Author     `gorm:"foreignKey:AuthorID" json:"author"`
	Description   string     `gorm:"type:text" json:"description"`
	Tags          []Tag      `gorm:"many2many:book_tags;constraint:OnDelete:CASCADE" json:"tags"`
	ISBN          string     `gorm:"size:13" json:"isbn"`
	PublishedDate *time.Time `gorm:"type:date" json:"published_date"`
	PDFFile       string     `gorm:"size:1024" json:"pdf_file"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasPDF reports whether a PDF is attached.
func (b *Book) HasPDF() bool {
	return b.PDFFile != ""
}

type PromotionalVideo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	VideoFile   string    `gorm:"size:1024" json:"video_file"`
	IsActive    bool      `gorm:"index" json:"is_active"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (PromotionalVideo) TableName() string {
	return "promotional_videos"
}
