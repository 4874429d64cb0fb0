/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package engine

// RegisterDefaults installs every built-in adapter. The worker binary calls
// this once at startup; tests register fakes instead.
func RegisterDefaults() {
	Register(NewPipelineAdapter())
	Register(NewPaddleOCRVLAdapter())
	Register(NewMarkitdownAdapter())
	Register(NewSensevoiceAdapter())
	Register(NewVideoAdapter())
	Register(NewFastaAdapter())
	Register(NewGenbankAdapter())
}
