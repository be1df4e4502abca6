// Package artifacts serializes structuring run results to disk.
//
// The CSV column set (idx,constellation,radius,text,page) and the result
// JSON field names are the persisted contract downstream consumers parse;
// changing either is a breaking change. The PCA scatter PNG is best-effort
// decoration: callers receive its error as a value and decide whether to
// log or ignore it, and a failed plot never invalidates the CSV/JSON pair.
package artifacts
