// Package core contains the render pipeline that turns V2EX topic and reply
// HTML into Markdown, styled text and content elements. It has no HTTP or
// storage dependencies of its own; those are injected through interfaces.
//
// The core package is organized into several sub-packages:
//
// - domain: Render configuration, stylesheets, styled text and content elements
// - converter: HTML to Markdown conversion and content element extraction
// - renderer: Markdown to styled text with code highlighting and mention overlay
// - language: Heuristic programming language detection for code blocks
// - mention: @username discovery in plain text
// - viewcache: Three-tier render cache with an optional backing store
// - pipeline: RenderActor that coalesces identical concurrent requests
// - workers: Bounded worker pool the actor schedules renders on
// - errors: Error taxonomy shared by every stage
// - interfaces: Contracts for stages and external dependencies (cache, logger)
//
// # Usage Example
//
//	import (
//	    "v2ex-richview/core/domain"
//	    "v2ex-richview/core/interfaces"
//	    "v2ex-richview/core/pipeline"
//	)
//
//	deps := interfaces.Dependencies{
//	    Cache:  myCache,  // optional, implements interfaces.Cache
//	    Logger: myLogger, // implements interfaces.Logger
//	}
//
//	actor, err := pipeline.NewRenderActor(deps, nil)
//	if err != nil {
//	    return err
//	}
//	defer actor.Close()
//
//	result, err := actor.Render(ctx, `<p>Hello <a href="/member/livid">@livid</a></p>`,
//	    domain.DefaultConfiguration())
package core
