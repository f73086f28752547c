package sources

// YouTube implementation is split across three files by responsibility:
//   youtube_data.go       — Data API v3 client: search, comment threads, statistics
//   youtube_innertube.go  — Innertube API types, constants, and low-level helpers
//   youtube_transcript.go — transcript fetching (ANDROID player + watch-page fallback)
