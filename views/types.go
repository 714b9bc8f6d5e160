package views

import "github.com/eringen/folio"

// contactResultData feeds the fragment swapped in after a contact submission.
type contactResultData struct {
	OK      bool
	Message string
	Errors  map[string]string
}

type loginData struct {
	ShowError bool
	CSRFToken string
}

type imagesData struct {
	Images    []folio.Image
	CSRFToken string
}

type errorData struct {
	Title   string
	Code    int
	Message string
}
