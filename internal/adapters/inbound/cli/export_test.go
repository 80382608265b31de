package cli

// LaunchBrowser lets external tests replace the browser launcher.
var LaunchBrowser = &launchBrowser
