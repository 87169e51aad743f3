// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/consensys/go-aster/pkg/aster"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] source_file(s)",
	Short: "Check a given set of Aster source files.",
	Long: `Check a given set of Aster source files, reporting any syntactic or
	semantic problems found.  Each file is checked as a module in its own
	right.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg checkConfig
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg.stdlib = !GetFlag(cmd, "no-stdlib")
		cfg.jobs = max(1, GetUint(cmd, "jobs"))
		cfg.constraint = GetString(cmd, "lang")
		cfg.watch = GetFlag(cmd, "watch")
		// Enforce any language version constraint
		checkLangVersion(cfg.constraint)
		//
		if cfg.watch {
			watchAndCheck(args, cfg)
		} else if !checkFiles(args, cfg) {
			os.Exit(1)
		}
	},
}

// checkConfig encapsulates certain parameters to be used when checking source
// files.
type checkConfig struct {
	// Indicates whether the standard prelude is declared.
	stdlib bool
	// Maximum number of files checked concurrently.
	jobs uint
	// Version constraint which the language front end must satisfy.
	constraint string
	// Indicates whether to keep re-checking files as they change.
	watch bool
}

// checkLangVersion enforces a given version constraint against the language
// front end, refusing to proceed when it is not satisfied.
func checkLangVersion(constraint string) {
	if constraint == "" {
		return
	}
	// Parse constraint itself
	c, err := semver.NewConstraint(constraint)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	if !c.Check(semver.MustParse(aster.LangVersion)) {
		fmt.Printf("language version %s does not satisfy constraint %s\n", aster.LangVersion, constraint)
		os.Exit(1)
	}
}

// checkFiles checks each file as a module in its own right, with files being
// checked concurrently when more than one job is permitted.  Reports whether
// or not all files checked out.
func checkFiles(filenames []string, cfg checkConfig) bool {
	var (
		group  errgroup.Group
		mutex  sync.Mutex
		failed bool
	)
	//
	group.SetLimit(int(cfg.jobs))
	//
	for _, filename := range filenames {
		filename := filename
		group.Go(func() error {
			_, errs, err := aster.CheckFiles(cfg.stdlib, filename)
			if err != nil {
				return err
			}
			// Reporting is serialised, so diagnostics from different files
			// never interleave.
			mutex.Lock()
			defer mutex.Unlock()
			//
			if len(errs) > 0 {
				reportErrors(errs)
				failed = true
			}
			//
			return nil
		})
	}
	// Only failures to read a file surface here.
	if err := group.Wait(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return !failed
}

// watchAndCheck keeps re-checking the given files as they change, until
// interrupted.  Only writes trigger a fresh check.
func watchAndCheck(filenames []string, cfg checkConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//nolint:errcheck
	defer watcher.Close()
	//
	for _, filename := range filenames {
		if err := watcher.Add(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	// Initial pass before the first change arrives.
	checkFiles(filenames, cfg)
	//
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			//
			if event.Op&fsnotify.Write != 0 {
				log.Debugf("rechecking %s", event.Name)
				checkFiles([]string{event.Name}, cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			//
			fmt.Println(err)
		}
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Uint("jobs", 1, "specify maximum number of files checked concurrently")
	checkCmd.Flags().String("lang", "", "require language version to satisfy given constraint")
	checkCmd.Flags().Bool("watch", false, "keep re-checking files as they change")
}
