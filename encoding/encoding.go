// Package encoding holds the header names and media types shared by requests and responses.
package encoding

const (
	// AcceptHeader definition.
	AcceptHeader string = "Accept"
	// ContentTypeHeader definition.
	ContentTypeHeader string = "Content-Type"
	// TextType definition for plain text bodies.
	TextType string = "text/plain"
	// AnyType accepts every media type.
	AnyType string = "*/*"
)
