// Package html provides a Normaliser for HTML resumes.
// It extracts readable text, stripping tags, scripts and styles and
// decoding entities, so exported web resumes can be searched.
package html
