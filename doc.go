// Package bundle packages a web application's static files into a single
// deflate-compressed ZIP archive for offline distribution.
//
// A bundle is described by a [Layout]: the top-level files and directories
// that must exist under the root directory. [Build] checks every required
// entry before creating the output, then walks each required directory in
// sorted order so that two builds of the same tree list identical entries in
// identical order. Entry names are relative to the root and use "/" as the
// separator; every directory below the root gets a zero-length "dir/" marker.
//
// # Quick Start
//
//	stats, err := bundle.Build(ctx, "./site", "./dist/site.zip",
//	    bundle.WithLayout(bundle.Layout{
//	        Name:        "site",
//	        Files:       []string{"index.html"},
//	        Directories: []string{"assets"},
//	    }),
//	)
//
// # Reproducible Builds
//
// Entries carry their source modification times by default. Use
// [WithModTime] to stamp a fixed time on every entry, which makes two builds
// of the same tree byte-identical:
//
//	bundle.Build(ctx, root, out, bundle.WithModTime(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)))
//
// Symbolic links, devices, sockets, and pipes are rejected with
// [ErrUnsupportedPathKind]; they are never followed or skipped.
package bundle
