package e2e

import (
	"github.com/cucumber/godog"

	"studycat/e2e/steps/common"
	"studycat/e2e/steps/study"
)

// RegisterSteps registers all step definitions from the step packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	study.RegisterSteps(ctx, tc)
}
