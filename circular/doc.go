// Copyright 2024 Tracescope Authors.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package circular provides small fixed-capacity ring-buffer primitives used
// by the access-pattern classifier's sliding window.
package circular
