//go:build !samplecachedebug

// SPDX-License-Identifier: EPL-2.0

package block

const debug = false
