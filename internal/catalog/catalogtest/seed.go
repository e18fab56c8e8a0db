package catalogtest

import "github.com/five82/booksite/internal/catalog"

const placeholderImage = "https://edwardtanguay.vercel.app/share/images/books/no-image.jpg"

// SeedBooks fills s with a small sample catalog.
func SeedBooks(s *Server) {
	for _, b := range []catalog.Book{
		{
			Title:         "The Go Programming Language",
			Description:   "Donovan and Kernighan's tour of Go, from basics to concurrency.",
			NumberOfPages: 380,
			Language:      "english",
			ImageURL:      placeholderImage,
		},
		{
			Title:         "Der Prozess",
			Description:   "Josef K. is arrested one morning for a crime nobody names.",
			NumberOfPages: 288,
			Language:      "german",
			ImageURL:      placeholderImage,
		},
		{
			Title:         "Cien años de soledad",
			Description:   "Seven generations of the Buendía family in Macondo.",
			NumberOfPages: 417,
			Language:      "spanish",
			ImageURL:      placeholderImage,
		},
	} {
		s.AddBook(b)
	}
}
