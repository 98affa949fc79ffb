package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	keyring.MockInit()

	Convey("Given an empty keyring", t, func() {
		Reset(func() { _ = DeleteToken() })

		Convey("Token reports no token without an error", func() {
			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("A stored token can be read back and deleted", func() {
			So(SetToken("s3cret"), ShouldBeNil)

			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "s3cret")

			So(DeleteToken(), ShouldBeNil)
			_, err = GetToken()
			So(err, ShouldEqual, keyring.ErrNotFound)
		})
	})
}
