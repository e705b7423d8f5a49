// Package cli implements the moments command line: publishing a thought
// with images, and the compress, hash and orphans utilities around the
// ingestion pipeline.
//
// Commands
//
//	moments publish --content "text" [--tag t]... [--id thoughtID] [--keep url|WxH[|hash]]... files...
//	moments compress [--max-width n] [--max-bytes n] in.jpg out.jpg
//	moments hash [-x n] [-y n] files...
//	moments orphans [--older-than 24h]
//	moments version
//
// Every command accepts -c/--config, --log-level and --log-format.
package cli
