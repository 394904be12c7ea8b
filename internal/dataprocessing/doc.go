// Package dataprocessing implements the compliance-spreadsheet pipeline:
// loading uploaded CSV/XLSX files into tables, classifying each table by
// report type, normalizing columns and values per type, and computing the
// week-over-week and 4-week-trend aggregates that feed report rendering.
//
// # Data Flow
//
// The typical flow through this package:
//
//	CSV/XLSX file → LoadTable → Table → DetectReportType → Normalize → stored table
//	stored table + reference date → SummarizeWeek / BuildTrend → summary records
//
// # Determinism
//
// Classification, normalization and aggregation are pure functions of
// their inputs. Nothing here reads the wall clock; the reference date
// that anchors "current week" is always supplied by the caller.
//
// # Error Handling
//
// Malformed individual cell values (durations, dates) degrade to zero or
// empty sentinels and are never raised. Structural problems are fatal
// for the affected call: a missing identifying column yields a schema
// error from Normalize, and a missing date or category axis yields a
// missing-column error from SummarizeWeek and BuildTrend.
package dataprocessing
