// Package process terminates the headless Chrome process tree started for
// manual rendering, so no renderer outlives the build.
package process
