// Package extract turns a selected schedule table into per-day intervals.
//
// The Aggregator asks a Recognizer to read the same region several times.
// Between attempts the region grows by a small percentage of its size, so
// that characters cut by the selection edge get a second chance. Each
// attempt's text is parsed and snapped with package interval, every snapped
// interval is counted, and the intervals with the highest count win. When
// several intervals share that count they are all returned, in chronological
// order.
//
// The Partitioner divides the table into equal-width columns, runs the
// Aggregator once per column and stores each outcome in a schedule.Model.
package extract
