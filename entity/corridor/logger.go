package corridor

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "corridor")
