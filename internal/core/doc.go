// Package core converts a POI CSV file into a compact JSON document.
//
// The package holds all conversion logic independent of the command line. It
// can be driven by cmd/poiconv or by tests without modification.
//
// # Pipeline
//
// A run is a single sequential pass, all in memory:
//
//  1. The input bytes are decoded by the first candidate encoding that yields
//     clean text ([ResolveEncoding]). Every attempt is reported.
//  2. The text is split into lines and each line parsed as one CSV record
//     ([ParseRows]). The first line is the header.
//  3. Each data row is validated against [POIFieldSpecs] by a [RowValidator].
//     Bad rows become [Rejection]s; accepted rows get ids 0..N-1.
//  4. Accepted records are encoded with a registered shape ([Encode]) and
//     written atomically ([WriteOutput]).
//  5. Optionally the output is read back ([VerifyOutput]), a zstd copy is
//     written and the rejected rows are saved as CSV.
//
// [Converter.Run] drives the pipeline and returns a [ConversionResult].
//
// # Output Shapes
//
// Shapes are registered at init time using [RegisterShape]:
//
//   - objects: [{"id":0,"name":"...","name_en":"...","city":"...","rank":1,...}]
//   - columnar: {"columns":["id","name",...],"data":[[0,"...",...]]}
//
// [LoadJSON] reads either shape back.
//
// # Error Handling
//
// Per-row problems never abort a run. Fatal errors are typed ([MissingInputError],
// [DecodingError], [IOWriteError], [VerificationError]) and mapped to
// user-friendly messages with [MapError]:
//
//   - FILE001-FILE002: Input errors (missing, undecodable)
//   - ROW001, VAL001-VAL002: Row errors (shape, numbers, semantics)
//   - IO001-IO003: Write errors (generic, permissions, disk full)
//   - OUT001: Verification errors
//   - CFG001: Configuration errors
package core
