// Package export turns an annotated document into a paginated PDF.
//
// Export runs in three steps:
//
//  1. Build the document HTML from markdown sections and their rendered
//     diagrams ([Document]).
//  2. Capture the document as a single PNG ([Capturer]). [ChromeCapturer]
//     screenshots the #document element in headless Chrome;
//     [SVGCapturer] rasterises only the diagrams through rsvg-convert.
//  3. Tile the PNG onto A4 portrait pages and verify the result
//     ([Exporter.Export]).
//
// Any failure in steps 2 or 3 is reported with code EXPORT_FAILED.
package export
