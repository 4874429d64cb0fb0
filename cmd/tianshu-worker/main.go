/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package main

import (
	"fmt"
	"os"

	"github.com/dinobot22/mineru-tianshu/pkg/worker"
)

func main() {
	w, err := worker.NewWorker()
	if err != nil {
		fmt.Println("failed to new worker")
		os.Exit(1)
	}
	w.Start()
}
