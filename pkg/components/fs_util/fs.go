/*
 * Copyright 2025 Brownster
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fs_util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path"
)

func CopyFile(fSys fs.FS, dstPath, srcPath string) error {
	src, err := fSys.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	fileInfo, err := src.Stat()
	if err != nil {
		return err
	}
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileInfo.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	if err != nil {
		return err
	}
	return nil
}

func CopyAll(fSys fs.FS, dstPath string) error {
	return fs.WalkDir(fSys, ".", func(currentPath string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if dirEntry.IsDir() {
			fileInfo, err := dirEntry.Info()
			if err != nil {
				return err
			}
			err = os.Mkdir(path.Join(dstPath, currentPath), fileInfo.Mode())
			if err != nil && !os.IsExist(err) {
				return err
			}
			return nil
		}
		return CopyFile(fSys, path.Join(dstPath, currentPath), currentPath)
	})
}

// Sha256File returns the hex encoded sha256 digest of the raw file content.
func Sha256File(fSys fs.FS, filePath string) (string, error) {
	file, err := fSys.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	hasher := sha256.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
