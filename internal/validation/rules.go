package validation

// Upload describes a file about to be attached as a book PDF.
type Upload struct {
	Filename string `json:"filename" validate:"required,pdfname"`
	Size     int64  `json:"size" validate:"lte=10485760"`
}

// BookFields holds the writable scalar fields of a book after merging a
// partial update onto the stored record.
type BookFields struct {
	Title    string `json:"title" validate:"required,max=300"`
	AuthorID uint   `json:"author" validate:"required,gt=0"`
	ISBN     string `json:"isbn" validate:"max=13"`
}

type AuthorFields struct {
	Name string `json:"name" validate:"required,max=200"`
}

type VideoFields struct {
	Title string `json:"title" validate:"required,max=200"`
}

type TagFields struct {
	Name string `json:"name" validate:"required,max=50"`
}
