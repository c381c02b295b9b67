package main

import "go.uber.org/zap"

func main() {
	logger := zap.NewNop()
	logger.Error("failed")
	logger.Fatal("failed") // want "вызов zap.Logger.Fatal в функции main запрещён"
}
