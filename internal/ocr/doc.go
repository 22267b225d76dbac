// Package ocr extracts text from an image buffer with Tesseract.
//
// The package wraps the Tesseract engine through gosseract/v2. The buffer is
// encoded as PNG in memory and handed to Tesseract directly; no temporary
// files are written.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Languages are Tesseract codes such as "eng", "deu" or "chi_sim". Several
// may be combined with "+", e.g. "eng+deu".
//
// # Regions
//
// Extract can be limited to a rectangle of the image. The rectangle is
// clipped to the image bounds and the returned word boxes are in the
// coordinates of the full image.
//
// If word bounding boxes cannot be retrieved, Extract still returns the text
// with an empty Regions slice.
package ocr
