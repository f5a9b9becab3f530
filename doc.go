// Package ogimage renders a repository's social preview card and uploads it
// through the GitHub settings page.
//
// # Rendering
//
// A Generator turns RepositoryPreviewData into a PNG in four steps:
//
//  1. Embed background, icons and font as data URIs and execute the card
//     template (html/template) into a self-contained document.
//  2. Load the document in headless Chrome (go-rod), wait for web fonts and
//     the body background image, then screenshot a 1280x640 viewport.
//  3. Re-encode the screenshot at best PNG compression.
//  4. Refuse results above MaxOutputSize, otherwise write atomically.
//
//	gen, err := ogimage.NewGenerator(ogimage.WithAssetPath(".github/templates"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := ogimage.CollectPreviewData(ctx, source, "octocat", "Hello-World", colors, logger)
//	...
//	res, err := gen.Generate(ctx, data, ".github/og-image.png", ogimage.DefaultCaptureOptions())
//
// # Publishing
//
// A Publisher drives a browser session through login, the repository
// settings page and the social preview upload. Every step confirms a page
// landmark first and fails with a *PublishError naming the state it was in:
//
//	pub := ogimage.NewPublisher()
//	sess, err := pub.Publish(ctx, ogimage.PublishRequest{
//	    Owner: "octocat", Repo: "Hello-World",
//	    Credentials: ogimage.Credentials{Username: user, Password: pass},
//	    ImagePath: ".github/og-image.png",
//	})
//
// The publisher depends on GitHub's settings markup. Selectors live in a
// Selectors value so they can be updated without touching the flow.
//
// # Browser
//
// Both components talk to the browser through the Launcher, Browser and
// Page interfaces. RodLauncher is the production implementation; tests
// substitute fakes.
package ogimage
