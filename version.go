// Copyright 2021 The MONCoin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package helper

var (
	version    = "1.0.0" // manually set semantic version number
	commitHash string    // automatically set git commit hash

	// Version is the reported helper version, with the commit
	// hash appended when it was set at build time.
	Version = func() string {
		if commitHash != "" {
			return version + "-" + commitHash
		}
		return version + "-dev"
	}()
)
