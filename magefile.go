//go:build mage

/*
Pixoonair
Copyright (C) 2024 Pixoonair contributors

This file is part of Pixoonair.

Pixoonair is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Pixoonair is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Pixoonair.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/joho/godotenv/autoload"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	cwd, _         = os.Getwd()
	binDir         = filepath.Join(cwd, "_bin")
	binReleasesDir = filepath.Join(binDir, "releases")
	upxBin         = os.Getenv("UPX_BIN")
)

type app struct {
	name    string
	path    string
	bin     string
	goos    string
	cgo     bool
	ldFlags string
}

var apps = []app{
	{
		name:    "linux",
		path:    filepath.Join(cwd, "cmd", "linux"),
		bin:     "pixoonair",
		goos:    "linux",
		cgo:     true,
		ldFlags: "-lcurses",
	},
	{
		name: "mac",
		path: filepath.Join(cwd, "cmd", "mac"),
		bin:  "pixoonair",
		goos: "darwin",
		cgo:  true,
	},
	{
		name: "windows",
		path: filepath.Join(cwd, "cmd", "windows"),
		bin:  "pixoonair.exe",
		goos: "windows",
	},
}

func getApp(name string) *app {
	for _, a := range apps {
		if a.name == name {
			return &a
		}
	}
	return nil
}

func cleanPlatform(name string) {
	_ = sh.Rm(filepath.Join(binDir, name))
}

func Clean() {
	_ = sh.Rm(binDir)
}

func buildApp(a app, out string) error {
	env := map[string]string{
		"GOOS": a.goos,
	}

	if !a.cgo {
		env["CGO_ENABLED"] = "0"
		return sh.RunWithV(env, "go", "build", "-o", out, a.path)
	}

	env["CGO_ENABLED"] = "1"
	if a.ldFlags != "" {
		env["CGO_LDFLAGS"] = a.ldFlags
	}

	return sh.RunWithV(env, "go", "build", "-o", out, a.path)
}

func outDir(a app) string {
	return filepath.Join(binDir, a.goos+"_"+runtime.GOARCH)
}

// Build builds one app by name, or every app buildable from the current host
// with "all". The curses panel needs cgo so cross builds are limited to
// windows.
func Build(appName string) {
	if appName == "all" {
		for _, a := range apps {
			if a.cgo && a.goos != runtime.GOOS {
				fmt.Println("Skipping", a.name, "(needs a native host)")
				continue
			}
			mg.Deps(func() { cleanPlatform(a.goos + "_" + runtime.GOARCH) })
			fmt.Println("Building", a.name)
			err := buildApp(a, filepath.Join(outDir(a), a.bin))
			if err != nil {
				fmt.Println("Error building", a.name, err)
				os.Exit(1)
			}
		}
		return
	}

	a := getApp(appName)
	if a == nil {
		fmt.Println("Unknown app", appName)
		os.Exit(1)
	}

	err := buildApp(*a, filepath.Join(outDir(*a), a.bin))
	if err != nil {
		fmt.Println("Error building", a.name, err)
		os.Exit(1)
	}
}

func Release(name string) {
	a := getApp(name)
	if a == nil {
		fmt.Println("Unknown app", name)
		os.Exit(1)
	}

	Build(name)

	_ = os.MkdirAll(binReleasesDir, 0755)
	releaseBin := filepath.Join(binReleasesDir, a.name+"_"+a.bin)
	err := sh.Copy(releaseBin, filepath.Join(outDir(*a), a.bin))
	if err != nil {
		fmt.Println("Error copying binary", err)
		os.Exit(1)
	}

	if a.goos != "windows" {
		err := os.Chmod(releaseBin, 0755)
		if err != nil {
			fmt.Println("Error chmod release bin", err)
			os.Exit(1)
		}
	}

	// upx output is not notarizable on macos
	if upxBin == "" || a.goos == "darwin" {
		return
	}

	err = sh.RunV(upxBin, "-9", releaseBin)
	if err != nil {
		fmt.Println("Error compressing binary", err)
		os.Exit(1)
	}
}

func Test() {
	_ = sh.RunV("go", "test", "./...")
}

func Coverage() {
	_ = sh.RunV("go", "test", "-coverprofile", "coverage.out", "./...")
	_ = sh.RunV("go", "tool", "cover", "-html", "coverage.out")
	_ = sh.Rm("coverage.out")
}
