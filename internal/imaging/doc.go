// Package imaging holds the pixel side of schedule extraction: region
// geometry, cropping, OCR preprocessing, the column preview overlay and a
// cache of decoded images.
//
// # Coordinate System
//
// Regions are expressed in image pixel coordinates with (0,0) at the top-left
// corner, X increasing rightward and Y increasing downward. Region values are
// float64 because day columns are obtained by division and sampling regions
// grow by a percentage on every attempt; they are converted to whole pixels
// only at crop time (Region.Rect), covering every pixel they touch.
//
// # Preprocessing
//
// Schedule cells are often printed on colored backgrounds. Preprocess turns a
// crop into grayscale, inverts it when its CIE L* lightness is low and raises
// contrast so OCR engines see dark digits on light paper.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never modify their input image.
package imaging
