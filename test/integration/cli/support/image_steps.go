package support

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/MeKo-Tech/barcodegen/internal/testutil"
	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"
)

// theImageShouldBe checks the pixel size of a generated image file.
func (testCtx *TestContext) theImageShouldBe(name string, width, height int) error {
	img, err := testutil.LoadImageFile(testCtx.tempPath(name))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	return checkSize(img, width, height)
}

func (testCtx *TestContext) theImageShouldHaveInk(name string) error {
	img, err := testutil.LoadImageFile(testCtx.tempPath(name))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if !testutil.HasInk(img, img.Bounds()) {
		return fmt.Errorf("image %s is blank", name)
	}
	return nil
}

// theFileShouldStartWith compares the leading bytes, e.g. "%PDF".
func (testCtx *TestContext) theFileShouldStartWith(name, prefix string) error {
	data, err := readFile(testCtx.tempPath(name))
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, []byte(prefix)) {
		return fmt.Errorf("file %s does not start with %q", name, prefix)
	}
	return nil
}

// theOutputShouldBeABase64Image decodes stdout as a base64 image.
func (testCtx *TestContext) theOutputShouldBeABase64Image(width, height int) error {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(testCtx.LastStdout)))
	if err != nil {
		return fmt.Errorf("output is not base64: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("output is not an image: %w", err)
	}
	return checkSize(img, width, height)
}

func checkSize(img image.Image, width, height int) error {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), width, height)
	}
	return nil
}

// RegisterImageSteps registers steps that inspect generated images.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the image "([^"]*)" should be (\d+)x(\d+)$`, testCtx.theImageShouldBe)
	sc.Step(`^the image "([^"]*)" should contain a barcode$`, testCtx.theImageShouldHaveInk)
	sc.Step(`^the file "([^"]*)" should start with "([^"]*)"$`, testCtx.theFileShouldStartWith)
	sc.Step(`^the output should be a base64 image of (\d+)x(\d+)$`, testCtx.theOutputShouldBeABase64Image)
}
